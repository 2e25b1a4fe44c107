package consts

const (
	SuccessProcessingMessageApprovalTimeReport = "Report generation request received"

	ReportFileNamePrefix     = "approval_time_report_"
	ReportFileExtension      = ".csv"
	ReportDateTimeFormat     = "2006-01-02 15:04:05"
	ReportFileNameDateFormat = "2006-01-02"
	FloatTwoDecimalFormat    = "%.2f"
	ReportSummaryLabel       = "AverageApprovalTimeHours"
)

var ReportHeader = []string{
	"LoanId",
	"CustomerId",
	"Status",
	"ApplicationDate",
	"ApprovalDate",
	"ApprovedBy",
	"ApprovalTimeHours",
}
