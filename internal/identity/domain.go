// Package identity adapts the identity store into the strict
// Principal value the Decision Center consumes. Permission storage and
// role administration belong to the identity service; this package
// only reads the effective grants per user.
package identity

import (
	"context"

	"github.com/gridstone-erp/gridstone-erp/internal/authz"
)

// PrincipalSource loads the decision-time principal for a user.
type PrincipalSource interface {
	Principal(ctx context.Context, userID int64) (authz.Principal, error)
}
