package mqtt

import "context"

// ReportPublisher pushes finished allocation reports to downstream
// consumers (dispatch boards, driver apps).
type ReportPublisher interface {
	// PublishReport sends the JSON encoded report of the given run.
	PublishReport(ctx context.Context, runID string, payload []byte) error
}
