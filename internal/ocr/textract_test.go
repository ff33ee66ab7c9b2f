package ocr

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/textract"
	"github.com/aws/aws-sdk-go-v2/service/textract/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/structcost/takeoff/constants"
)

// stubTextract scripts the service responses page by page.
type stubTextract struct {
	startOut *textract.StartDocumentAnalysisOutput
	startErr error

	getOuts []*textract.GetDocumentAnalysisOutput
	getErr  error
	getCall int

	lastStart *textract.StartDocumentAnalysisInput
	lastGet   *textract.GetDocumentAnalysisInput
}

func (s *stubTextract) StartDocumentAnalysis(_ context.Context, in *textract.StartDocumentAnalysisInput, _ ...func(*textract.Options)) (*textract.StartDocumentAnalysisOutput, error) {
	s.lastStart = in
	return s.startOut, s.startErr
}

func (s *stubTextract) GetDocumentAnalysis(_ context.Context, in *textract.GetDocumentAnalysisInput, _ ...func(*textract.Options)) (*textract.GetDocumentAnalysisOutput, error) {
	s.lastGet = in
	if s.getErr != nil {
		return nil, s.getErr
	}
	out := s.getOuts[s.getCall]
	if s.getCall < len(s.getOuts)-1 {
		s.getCall++
	}
	return out, nil
}

func testAdapter(api TextractAPI) *TextractAdapter {
	return NewTextractAdapter(api, TextractConfig{
		S3Bucket:     "drawings",
		PollInterval: time.Millisecond,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSubmitRequestsTableAnalysis(t *testing.T) {
	stub := &stubTextract{
		startOut: &textract.StartDocumentAnalysisOutput{JobId: aws.String("job-1")},
	}
	a := testAdapter(stub)

	jobID, err := a.Submit(context.Background(), "plans/S-101.pdf")
	require.NoError(t, err)
	assert.Equal(t, "job-1", jobID)

	require.NotNil(t, stub.lastStart)
	assert.Equal(t, "drawings", aws.ToString(stub.lastStart.DocumentLocation.S3Object.Bucket))
	assert.Equal(t, "plans/S-101.pdf", aws.ToString(stub.lastStart.DocumentLocation.S3Object.Name))
	assert.Equal(t, []types.FeatureType{types.FeatureTypeTables}, stub.lastStart.FeatureTypes)
}

func TestSubmitServiceErrorIsUnavailable(t *testing.T) {
	a := testAdapter(&stubTextract{startErr: errors.New("throttled")})
	_, err := a.Submit(context.Background(), "plans/S-101.pdf")
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestSubmitRejectsMissingKey(t *testing.T) {
	a := testAdapter(&stubTextract{})
	_, err := a.Submit(context.Background(), "")
	require.Error(t, err)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestPollServiceErrorIsUnavailable(t *testing.T) {
	a := testAdapter(&stubTextract{getErr: errors.New("throttled")})
	_, err := a.Poll(context.Background(), "job-1")
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
}

func TestPollNonTerminalReturnsStatusOnly(t *testing.T) {
	a := testAdapter(&stubTextract{getOuts: []*textract.GetDocumentAnalysisOutput{
		{JobStatus: types.JobStatusInProgress},
	}})

	res, err := a.Poll(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusRunning, res.Status)
	assert.Empty(t, res.Blocks)
}

func TestPollFollowsPagination(t *testing.T) {
	stub := &stubTextract{getOuts: []*textract.GetDocumentAnalysisOutput{
		{
			JobStatus: types.JobStatusSucceeded,
			NextToken: aws.String("page-2"),
			Blocks: []types.Block{{
				Id:         aws.String("l1"),
				BlockType:  types.BlockTypeLine,
				Text:       aws.String("GENERAL NOTES"),
				Page:       aws.Int32(1),
				Confidence: aws.Float32(99.5),
			}},
		},
		{
			JobStatus: types.JobStatusSucceeded,
			Blocks: []types.Block{{
				Id:          aws.String("c1"),
				BlockType:   types.BlockTypeCell,
				Page:        aws.Int32(2),
				RowIndex:    aws.Int32(1),
				ColumnIndex: aws.Int32(2),
				Relationships: []types.Relationship{
					{Type: types.RelationshipTypeChild, Ids: []string{"w1", "w2"}},
					{Type: types.RelationshipTypeValue, Ids: []string{"ignored"}},
				},
			}},
		},
	}}
	a := testAdapter(stub)

	res, err := a.Poll(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusSucceeded, res.Status)
	require.Len(t, res.Blocks, 2)

	line := res.Blocks[0]
	assert.Equal(t, BlockLine, line.Type)
	assert.Equal(t, "GENERAL NOTES", line.Text)
	assert.InDelta(t, 0.995, line.Confidence, 1e-6)

	cell := res.Blocks[1]
	assert.Equal(t, BlockCell, cell.Type)
	assert.Equal(t, 1, cell.RowIndex)
	assert.Equal(t, 2, cell.ColIndex)
	assert.Equal(t, []string{"w1", "w2"}, cell.ChildIDs, "only CHILD relationships carry over")
}

func TestWaitPollsUntilTerminal(t *testing.T) {
	stub := &stubTextract{getOuts: []*textract.GetDocumentAnalysisOutput{
		{JobStatus: types.JobStatusInProgress},
		{JobStatus: types.JobStatusFailed},
	}}
	a := testAdapter(stub)

	res, err := a.Wait(context.Background(), "job-1")
	require.NoError(t, err)
	assert.Equal(t, constants.JobStatusFailed, res.Status)
}

func TestWaitStopsOnContextCancel(t *testing.T) {
	stub := &stubTextract{getOuts: []*textract.GetDocumentAnalysisOutput{
		{JobStatus: types.JobStatusInProgress},
	}}
	a := NewTextractAdapter(stub, TextractConfig{
		S3Bucket:     "drawings",
		PollInterval: time.Hour, // never ticks inside the test
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := a.Wait(ctx, "job-1")
	assert.ErrorIs(t, err, context.Canceled)
}
