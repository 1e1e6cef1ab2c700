package cashregister

import (
	"github.com/MrJamesThe3rd/pdv/internal/cashregister"
	"github.com/MrJamesThe3rd/pdv/internal/money"
)

type reportResponse struct {
	cashregister.DailyReport
	ExpectedCash      money.Cents `json:"expectedCash"`
	ExpectedCashLabel string      `json:"expectedCashLabel"`
}

func toReportResponse(rep cashregister.DailyReport) reportResponse {
	expected := rep.ExpectedCash()

	return reportResponse{
		DailyReport:       rep,
		ExpectedCash:      expected,
		ExpectedCashLabel: expected.String(),
	}
}
