package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"loan-approval-metrics/internal/pkg/consts"
	"loan-approval-metrics/internal/pkg/log_messages"
	"loan-approval-metrics/internal/pkg/logger"
	storemodels "loan-approval-metrics/internal/pkg/store/models"
	approvaltime "loan-approval-metrics/internal/service/approval_time"
	"loan-approval-metrics/internal/service/interfaces"

	"go.uber.org/zap"
)

type ReportService struct {
	loanRepo      interfaces.LoanRepositoryInterface
	gcsClient     interfaces.GcsInterface
	sftpUploader  interfaces.SFTPUploaderInterface
	directoryPath string
}

// NewReportService builds the daily approval time report job. sftpUploader is
// nil when SFTP delivery is disabled.
func NewReportService(
	loanRepo interfaces.LoanRepositoryInterface,
	gcsClient interfaces.GcsInterface,
	sftpUploader interfaces.SFTPUploaderInterface,
	directoryPath string,
) *ReportService {
	return &ReportService{
		loanRepo:      loanRepo,
		gcsClient:     gcsClient,
		sftpUploader:  sftpUploader,
		directoryPath: directoryPath,
	}
}

// FileName is the report file name for the given UTC day.
func FileName(day time.Time) string {
	return consts.ReportFileNamePrefix + day.UTC().Format(consts.ReportFileNameDateFormat) + consts.ReportFileExtension
}

// DayStart truncates t to midnight UTC.
func DayStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GenerateReport writes the loans decided on day to a CSV file, uploads it and
// removes the local copy. It returns the report file name.
func (s *ReportService) GenerateReport(ctx context.Context, day time.Time) (string, error) {
	from := DayStart(day)
	to := from.Add(24 * time.Hour)

	loans, err := s.loanRepo.GetLoansDecidedBetween(ctx, from, to)
	if err != nil {
		return "", fmt.Errorf("fetch decided loans: %w", err)
	}
	if len(loans) == 0 {
		logger.CtxWarn(ctx, "No decided loans found for report day", zap.Time("day", from))
	}

	fileName := FileName(from)
	fullPath, err := s.writeCSV(ctx, fileName, loans)
	if err != nil {
		return "", err
	}
	defer s.removeLocal(ctx, fullPath)

	if err := s.gcsClient.Upload(ctx, fullPath, fileName); err != nil {
		return "", fmt.Errorf("upload report to GCS: %w", err)
	}

	if s.sftpUploader != nil {
		if err := s.sftpUploader.Upload(ctx, fullPath, fileName); err != nil {
			return "", fmt.Errorf("upload report to SFTP: %w", err)
		}
	}

	return fileName, nil
}

func (s *ReportService) writeCSV(ctx context.Context, fileName string, loans []storemodels.Loan) (fullPath string, err error) {
	acc, err := approvaltime.Summarize(storemodels.ApprovalRecords(loans))
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.directoryPath, 0o750); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	fullPath = filepath.Join(s.directoryPath, fileName)
	// #nosec G304: file name is built from a date, not user input
	file, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create report file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); err == nil && closeErr != nil {
			err = fmt.Errorf("close report file: %w", closeErr)
		}
		if err != nil {
			_ = os.Remove(fullPath)
		}
	}()

	writer := csv.NewWriter(file)
	if err := writer.Write(consts.ReportHeader); err != nil {
		return "", fmt.Errorf("write report header: %w", err)
	}
	for _, loan := range loans {
		if err := writer.Write(reportRow(loan)); err != nil {
			return "", fmt.Errorf("write report row for loan %d: %w", loan.LoanID, err)
		}
	}
	summary := make([]string, len(consts.ReportHeader))
	summary[0] = consts.ReportSummaryLabel
	summary[len(summary)-1] = fmt.Sprintf(consts.FloatTwoDecimalFormat, acc.Average())
	if err := writer.Write(summary); err != nil {
		return "", fmt.Errorf("write report summary: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", fmt.Errorf("flush report: %w", err)
	}

	logger.CtxInfo(ctx, log_messages.ReportWritten,
		zap.String("path", fullPath),
		zap.Int("loans", len(loans)),
		zap.Float64("average_hours", acc.Average()),
	)
	return fullPath, nil
}

func reportRow(loan storemodels.Loan) []string {
	var approvalDate, approvalHours string
	if loan.ApprovalDate != nil {
		approvalDate = loan.ApprovalDate.UTC().Format(consts.ReportDateTimeFormat)
	}
	if h := loan.ApprovalHours(); h != nil {
		approvalHours = fmt.Sprintf(consts.FloatTwoDecimalFormat, *h)
	}
	return []string{
		strconv.FormatInt(loan.LoanID, 10),
		strconv.FormatInt(loan.CustomerID, 10),
		string(loan.Status),
		loan.ApplicationDate.UTC().Format(consts.ReportDateTimeFormat),
		approvalDate,
		loan.ApprovedBy,
		approvalHours,
	}
}

func (s *ReportService) removeLocal(ctx context.Context, fullPath string) {
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		logger.CtxError(ctx, log_messages.ErrorRemovingLocalReport, err, zap.String("path", fullPath))
	}
}
