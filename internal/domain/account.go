package domain

import "time"

// TokenPair is the access/refresh credential pair issued by the backend
type TokenPair struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Credentials is the login payload
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the sign-up payload
type Registration struct {
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
}

// PasswordResetConfirm completes a password reset
type PasswordResetConfirm struct {
	UID             string `json:"uid"`
	Token           string `json:"token"`
	Password        string `json:"new_password"`
	ConfirmPassword string `json:"new_password_confirm"`
}

// PasswordChange changes the password of the signed-in user
type PasswordChange struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Profile is the signed-in user's profile
type Profile struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	JobTitle  string `json:"job_title,omitempty"`
	Phone     string `json:"phone,omitempty"`
	IsOwner   bool   `json:"is_owner"`
}

// FullName returns first and last name joined
func (p Profile) FullName() string {
	switch {
	case p.FirstName == "":
		return p.LastName
	case p.LastName == "":
		return p.FirstName
	default:
		return p.FirstName + " " + p.LastName
	}
}

// ProfileUpdate is a partial profile update
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	JobTitle  *string `json:"job_title,omitempty"`
	Phone     *string `json:"phone,omitempty"`
}

// Enterprise is the business profile owned by an account
type Enterprise struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Industry  string `json:"industry,omitempty"`
	Size      string `json:"size,omitempty"`
	Country   string `json:"country,omitempty"`
	Website   string `json:"website,omitempty"`
	FoundedIn int    `json:"founded_in,omitempty"`
}

// TeamMember is a member of the enterprise team
type TeamMember struct {
	ID       string    `json:"id"`
	Email    string    `json:"email"`
	Name     string    `json:"name"`
	Role     string    `json:"role"`
	JoinedAt time.Time `json:"joined_at"`
}

// Invitation is a pending team invitation
type Invitation struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
}

// InvitationRequest is the payload for inviting a team member
type InvitationRequest struct {
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// InvitationInfo is what an invitation token resolves to
type InvitationInfo struct {
	EnterpriseName string `json:"enterprise_name"`
	InviterName    string `json:"inviter_name"`
	Email          string `json:"email"`
}

// InvitationAcceptance is the payload for accepting an invitation
type InvitationAcceptance struct {
	Token           string `json:"token"`
	FirstName       string `json:"first_name,omitempty"`
	LastName        string `json:"last_name,omitempty"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"password_confirm"`
}

// TeamPortal is the landing view for team members
type TeamPortal struct {
	EnterpriseName string       `json:"enterprise_name"`
	Members        []TeamMember `json:"members"`
	AssignedTasks  []Task       `json:"assigned_tasks"`
}

// NotificationSettings are the user's notification preferences
type NotificationSettings struct {
	EmailDigest      bool   `json:"email_digest"`
	TaskAssigned     bool   `json:"task_assigned"`
	TaskDueReminders bool   `json:"task_due_reminders"`
	AssessmentReady  bool   `json:"assessment_ready"`
	DigestFrequency  string `json:"digest_frequency"`
}

// Message is the generic {"message": "..."} response body
type Message struct {
	Message string `json:"message"`
}
