package workflow

import (
	"time"

	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/pkg/busday"
)

// ResponseDays is how many business days an RFI may sit in an open stage
// before it counts as overdue.
const ResponseDays = 5

// openStages are the pipeline positions where the ball is in somebody's
// court and the clock is running.
var openStages = map[domain.Stage]struct{}{
	domain.StageSubmitted:           {},
	domain.StageInReview:            {},
	domain.StagePendingResponse:     {},
	domain.StageFieldWorkInProgress: {},
}

// IsOpenStage reports whether the stage counts toward the overdue clock.
func IsOpenStage(stage domain.Stage) bool {
	_, ok := openStages[stage]
	return ok
}

// IsOverdue reports whether the RFI has sat in an open stage for more than
// ResponseDays business days. It is pure and recomputed on every read; the
// result is never persisted because "now" moves independently of any write.
func IsOverdue(rfi domain.RFI, now time.Time) bool {
	if !IsOpenStage(rfi.Stage) {
		return false
	}
	return now.After(busday.Add(rfi.CreatedAt, ResponseDays))
}
