package job

import (
	"context"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/loan/service"
	"library-backend/internal/shared/utils"
)

const TypeOverdueScan = "loan:overdue-scan"

type OverdueScanPayload struct {
	AsOf time.Time `json:"as_of,omitempty"`
}

func NewOverdueScanTask(asOf time.Time) (*asynq.Task, error) {
	return utils.NewTask(TypeOverdueScan, OverdueScanPayload{AsOf: asOf})
}

// OverdueScanHandler walks open loans past their due date and logs each
// one. The scheduler fires it daily; a manual enqueue with an explicit
// as_of replays the scan for any point in time.
type OverdueScanHandler struct {
	loanService service.ServiceInterface
}

func NewOverdueScanHandler(loanService service.ServiceInterface) *OverdueScanHandler {
	return &OverdueScanHandler{
		loanService: loanService,
	}
}

func (h *OverdueScanHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload OverdueScanPayload
	if err := utils.UnmarshalTask(task, &payload); err != nil {
		return err
	}

	asOf := time.Now()
	if !payload.AsOf.IsZero() {
		asOf = payload.AsOf
	}

	overdue, err := h.loanService.ListOverdue(ctx, asOf)
	if err != nil {
		log.Error().Err(err).Msg("overdue scan failed")
		return err
	}

	for _, loan := range overdue {
		log.Warn().
			Str("loan_id", loan.ID.String()).
			Str("client", loan.ClientName).
			Str("book", loan.BookTitle).
			Time("due_date", loan.DueDate).
			Int("days_overdue", int(asOf.Sub(loan.DueDate).Hours()/24)).
			Msg("loan overdue")
	}

	log.Info().
		Int("overdue_count", len(overdue)).
		Time("as_of", asOf).
		Msg("overdue scan completed")

	return nil
}
