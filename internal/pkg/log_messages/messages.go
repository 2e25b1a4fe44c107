package log_messages

const (
	FailedLoadingConfiguration = "Failed to load configuration"
	ConfigurationLoaded        = "Configuration loaded successfully"
	EnvFileNotLoaded           = "No .env file loaded, using process environment"
	ServerStartFailure         = "failed to start server"
	ServerExiting              = "Server exiting"
	CleanupStarted             = "Starting cleanup of resources..."
	CleanupCompleted           = "All resources cleaned up successfully"

	// Tracing
	OtelSetupFailed        = "OTLP trace exporter setup failed, tracing disabled"
	OtelCollectorNotConfig = "No OTLP collector configured, tracing disabled"

	// MongoDB
	ErrorFindingLoan           = "Error finding loan by loanId"
	NoLoanFound                = "No loan found for loanId"
	ErrorFetchingLoans         = "Error fetching loans"
	ErrorUpdatingLoanDecision  = "Error updating loan decision"
	LoanDecisionNotApplied     = "Loan decision not applied, loan missing or no longer pending"
	SuccessLoanDecisionUpdated = "Loan decision stored"

	// Redis
	ErrorReadingCachedAverage      = "Failed to read cached average approval time"
	ErrorDecodingCachedAverage     = "Failed to decode cached average approval time"
	ErrorWritingCachedAverage      = "Failed to cache average approval time"
	ErrorInvalidatingCachedAverage = "Failed to invalidate cached average approval time"

	// Approval
	LoanApprovalRequestReceived = "Processing loan approval request"
	LoanApprovalProcessed       = "Loan approval processed successfully"
	LoanApprovalFailed          = "Loan approval failed"

	// Metrics
	AverageApprovalTimeComputed = "Average approval time computed"
	AverageApprovalTimeCacheHit = "Average approval time served from cache"
	ErrorComputingAverage       = "Failed to compute average approval time"

	// Messaging
	PubsubPublisherCreated        = "PubSub publisher created"
	PubsubMessagePublished        = "PubSub message published"
	ErrorPublishingDecisionNotice = "Failed to publish loan decision notification"
	DecisionNoticePublished       = "Loan decision notification published"
	KafkaProducerCreated          = "Kafka producer created"
	ErrorPublishingMetricEvent    = "Failed to publish approval time metric event"
	MetricEventPublished          = "Approval time metric event published"
	ErrorMarshallingJSON          = "Error marshalling JSON"

	// Report
	ReportGenerationRequestReceived = "Report generation request received"
	ReportWritten                   = "Approval time report written"
	ReportGenerated                 = "Approval time report generated"
	ReportUploadedToGCSBucket       = "Approval time report uploaded to GCS bucket"
	ReportUploadedToSFTP            = "Approval time report uploaded to SFTP"
	ErrorGeneratingReport           = "Failed to generate approval time report"
	ErrorRemovingLocalReport        = "Failed to remove local report file"

	// GCS
	ErrorUploadingToGCSBucket   = "Error uploading to GCS bucket"
	ErrorClosingGCSWriter       = "Error closing GCS writer"
	ErrorClosingGCSClient       = "Error closing GCS client"
	GCSClientClosedSuccessfully = "GCS client closed successfully"

	// Worker pool
	WorkerPoolStopped = "Worker pool stopped"
)
