package response_models

import "github.com/google/uuid"

type UserResponse struct {
	ID         uuid.UUID  `json:"id"`
	Email      string     `json:"email"`
	FirstName  string     `json:"first_name"`
	LastName   string     `json:"last_name"`
	RefCode    string     `json:"ref_code"`
	Balance    string     `json:"balance"`
	ReferrerID *uuid.UUID `json:"referrer_id,omitempty"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type ReferralUserResponse struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
}

type ProfileResponse struct {
	UserResponse
	TotalReferrals   int64                  `json:"total_referrals"`
	ActiveMembership *MembershipResponse    `json:"active_membership"`
	Memberships      []MembershipResponse   `json:"memberships"`
	ReferralUsers    []ReferralUserResponse `json:"referral_users"`
	BonusHistory     []BonusResponse        `json:"bonus_history"`
}
