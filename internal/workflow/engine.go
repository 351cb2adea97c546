// Package workflow implements the submission lifecycle: onboarding
// submission, status transitions, document signing, letter generation,
// verification forms and the personnel download flow. Every mutation of
// a submission's status goes through this package; nothing else writes
// the status column.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"naspac/internal/notify"
	"naspac/internal/pdf"
	"naspac/internal/storage"
	"naspac/internal/store"
	"naspac/internal/utils"
	"naspac/pkg/types"

	"github.com/sirupsen/logrus"
)

// txTimeout bounds the engine's transactions. PDF rendering and image
// embedding happen inside the atomic unit of work and are slow relative
// to ordinary request handling.
const txTimeout = 20 * time.Second

// Signer stamps an endorsement onto an existing letter.
type Signer interface {
	Sign(req pdf.SignRequest) ([]byte, error)
}

// LetterRenderer composes the job-confirmation letter.
type LetterRenderer interface {
	Render(data pdf.LetterData) ([]byte, error)
}

// Dispatcher is the best-effort outbound email channel. Enqueue must not
// block and must not fail the caller.
type Dispatcher interface {
	Enqueue(email notify.Email)
}

type Engine struct {
	store      store.Datastore
	blobs      storage.Store
	signer     Signer
	letters    LetterRenderer
	dispatcher Dispatcher
	logger     *logrus.Logger

	letterhead []byte
	httpClient *http.Client
	now        func() time.Time
}

func NewEngine(
	datastore store.Datastore,
	blobs storage.Store,
	signer Signer,
	letters LetterRenderer,
	dispatcher Dispatcher,
	logger *logrus.Logger,
) *Engine {
	return &Engine{
		store:      datastore,
		blobs:      blobs,
		signer:     signer,
		letters:    letters,
		dispatcher: dispatcher,
		logger:     logger,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		now:        time.Now,
	}
}

// SetLetterhead installs the letterhead image resolved at startup. An
// empty letterhead renders letters without a background.
func (e *Engine) SetLetterhead(image []byte) {
	e.letterhead = image
}

// reviewer loads the actor and requires an ADMIN or STAFF role.
func (e *Engine) reviewer(ctx context.Context, actorID string) (*types.User, error) {
	user, err := e.store.Users().ByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, types.ErrNotFound) {
			return nil, fmt.Errorf("only ADMIN or STAFF can perform this action: %w", types.ErrForbidden)
		}
		return nil, err
	}
	if !user.Role.IsReviewer() {
		return nil, fmt.Errorf("only ADMIN or STAFF can perform this action: %w", types.ErrForbidden)
	}
	return user, nil
}

// personnel loads the actor and requires the PERSONNEL role.
func (e *Engine) personnel(ctx context.Context, actorID string) (*types.User, error) {
	user, err := e.store.Users().ByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if user.Role != types.RolePersonnel {
		return nil, fmt.Errorf("only PERSONNEL can perform this action: %w", types.ErrForbidden)
	}
	return user, nil
}

// reviewerAudience maps an acting reviewer to the notification audience
// describing their action.
func reviewerAudience(role types.Role) types.Role {
	if role == types.RoleAdmin {
		return types.RoleAdmin
	}
	return types.RoleStaff
}

// blobKey builds a unique storage key: directory, owner, timestamp and a
// random suffix so concurrent uploads can never collide.
func (e *Engine) blobKey(dir, ownerID, ext string) string {
	return fmt.Sprintf("%s/%s-%d-%s.%s", dir, ownerID, e.now().UnixMilli(), utils.NanoIDSize(8), ext)
}

// isValidationError reports whether err is one of the taxonomy kinds
// surfaced to callers as-is (never retried, never wrapped further).
func isValidationError(err error) bool {
	return errors.Is(err, types.ErrForbidden) ||
		errors.Is(err, types.ErrNotFound) ||
		errors.Is(err, types.ErrConflict) ||
		errors.Is(err, types.ErrPrecondition) ||
		types.IsInvalidTransition(err)
}
