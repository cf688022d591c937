package invitation

import "context"

// InvitationRepository defines the persistence operations used by delivery tracking
type InvitationRepository interface {
	// FindByMessageID loads the invitation carrying the provider message id,
	// with User and Contact populated. Returns shared.ErrNotFound when none matches.
	FindByMessageID(ctx context.Context, entity EntityType, messageID string) (*Invitation, error)

	// SaveEmailError writes only the email_error column of the invitation
	SaveEmailError(ctx context.Context, inv *Invitation) error

	// Save creates or updates every column of the invitation
	Save(ctx context.Context, inv *Invitation) error
}
