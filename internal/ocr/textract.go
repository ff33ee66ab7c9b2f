package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"

	"github.com/structcost/takeoff/constants"
	"github.com/structcost/takeoff/internal/common"
)

// TextractAPI is the slice of the Textract client the adapter uses. It lets
// us stub the service in tests.
type TextractAPI interface {
	StartDocumentAnalysis(ctx context.Context, in *textract.StartDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.StartDocumentAnalysisOutput, error)
	GetDocumentAnalysis(ctx context.Context, in *textract.GetDocumentAnalysisInput, optFns ...func(*textract.Options)) (*textract.GetDocumentAnalysisOutput, error)
}

// JobResult is the terminal payload of one OCR job.
type JobResult struct {
	Status constants.JobStatus
	Blocks []RawBlock
}

// TextractAdapter submits documents stored in S3 to Textract table analysis
// and polls for the terminal block payload.
type TextractAdapter struct {
	api          TextractAPI
	bucket       string
	pollInterval time.Duration
	logger       *slog.Logger
}

type TextractConfig struct {
	S3Bucket     string
	PollInterval time.Duration
}

func NewTextractAdapter(api TextractAPI, cfg TextractConfig, logger *slog.Logger) *TextractAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 3 * time.Second
	}
	return &TextractAdapter{
		api:          api,
		bucket:       cfg.S3Bucket,
		pollInterval: cfg.PollInterval,
		logger:       logger,
	}
}

// NewTextractClient builds the real service client from ambient AWS config.
func NewTextractClient(ctx context.Context) (*textract.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return textract.NewFromConfig(cfg), nil
}

// Submit starts asynchronous table analysis for an object key in the
// configured bucket and returns the job id.
func (a *TextractAdapter) Submit(ctx context.Context, key string) (string, error) {
	if a.bucket == "" || key == "" {
		return "", common.InvalidArgumentErrorf("textract submit: bucket and key are required")
	}
	out, err := a.api.StartDocumentAnalysis(ctx, &textract.StartDocumentAnalysisInput{
		DocumentLocation: &types.DocumentLocation{
			S3Object: &types.S3Object{
				Bucket: aws.String(a.bucket),
				Name:   aws.String(key),
			},
		},
		FeatureTypes: []types.FeatureType{types.FeatureTypeTables},
	})
	if err != nil {
		return "", common.UnavailableError(fmt.Sprintf("start document analysis: %v", err))
	}
	jobID := aws.ToString(out.JobId)
	a.logger.Info("textract.submit.ok", "bucket", a.bucket, "key", key, "job_id", jobID)
	return jobID, nil
}

// Poll fetches the current job state once. When the job is terminal it
// returns all result pages, following NextToken pagination.
func (a *TextractAdapter) Poll(ctx context.Context, jobID string) (JobResult, error) {
	out, err := a.api.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
		JobId: aws.String(jobID),
	})
	if err != nil {
		return JobResult{}, common.UnavailableError(fmt.Sprintf("get document analysis: %v", err))
	}

	status := constants.JobStatus(out.JobStatus)
	if !status.Terminal() {
		return JobResult{Status: status}, nil
	}

	blocks := convertBlocks(out.Blocks)
	next := out.NextToken
	for next != nil {
		page, err := a.api.GetDocumentAnalysis(ctx, &textract.GetDocumentAnalysisInput{
			JobId:     aws.String(jobID),
			NextToken: next,
		})
		if err != nil {
			return JobResult{}, common.UnavailableError(fmt.Sprintf("get document analysis page: %v", err))
		}
		blocks = append(blocks, convertBlocks(page.Blocks)...)
		next = page.NextToken
	}
	return JobResult{Status: status, Blocks: blocks}, nil
}

// Wait polls until the job reaches a terminal status or ctx is done.
func (a *TextractAdapter) Wait(ctx context.Context, jobID string) (JobResult, error) {
	ticker := time.NewTicker(a.pollInterval)
	defer ticker.Stop()

	for {
		res, err := a.Poll(ctx, jobID)
		if err != nil {
			return JobResult{}, err
		}
		if res.Status.Terminal() {
			a.logger.Info("textract.job.terminal",
				"job_id", jobID, "status", string(res.Status), "blocks", len(res.Blocks))
			return res, nil
		}
		select {
		case <-ctx.Done():
			return JobResult{}, ctx.Err()
		case <-ticker.C:
		}
	}
}

// convertBlocks maps service block types onto RawBlocks. Confidence comes in
// as 0..100 and is scaled to 0..1.
func convertBlocks(in []types.Block) []RawBlock {
	out := make([]RawBlock, 0, len(in))
	for _, b := range in {
		rb := RawBlock{
			ID:         aws.ToString(b.Id),
			Type:       BlockType(b.BlockType),
			Text:       aws.ToString(b.Text),
			Page:       int(aws.ToInt32(b.Page)),
			RowIndex:   int(aws.ToInt32(b.RowIndex)),
			ColIndex:   int(aws.ToInt32(b.ColumnIndex)),
			Confidence: float64(aws.ToFloat32(b.Confidence)) / 100.0,
			Selection:  SelectionStatus(b.SelectionStatus),
		}
		for _, rel := range b.Relationships {
			if rel.Type != types.RelationshipTypeChild {
				continue
			}
			rb.ChildIDs = append(rb.ChildIDs, rel.Ids...)
		}
		out = append(out, rb)
	}
	return out
}
