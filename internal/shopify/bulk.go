package shopify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/jonathan/price-agent/internal/retry"
	"github.com/jonathan/price-agent/internal/types"
)

const stagedUploadsCreateMutation = `
mutation stagedUploadsCreate($input: [StagedUploadInput!]!) {
  stagedUploadsCreate(input: $input) {
    stagedTargets {
      url
      resourceUrl
      parameters {
        name
        value
      }
    }
    userErrors {
      field
      message
    }
  }
}`

const bulkOperationRunMutation = `
mutation bulkOperationRunMutation($mutation: String!, $stagedUploadPath: String!) {
  bulkOperationRunMutation(mutation: $mutation, stagedUploadPath: $stagedUploadPath) {
    bulkOperation {
      id
      status
    }
    userErrors {
      field
      message
    }
  }
}`

// productUpdateMutation is the per-line mutation the platform executes for
// every JSONL line in the staged file.
const productUpdateMutation = `
mutation call($input: ProductInput!) {
  productUpdate(input: $input) {
    product {
      id
    }
    userErrors {
      field
      message
    }
  }
}`

const bulkStatusQuery = `
query bulkOperationStatus($id: ID!) {
  node(id: $id) {
    ... on BulkOperation {
      id
      status
      errorCode
      objectCount
      fileSize
      url
    }
  }
}`

type stagedParameter struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type stagedTarget struct {
	URL        string            `json:"url"`
	Parameters []stagedParameter `json:"parameters"`
}

// BulkOptions parameterizes the submit-and-poll phase.
type BulkOptions struct {
	PollInterval time.Duration
	MaxAttempts  int

	// Sleep overrides the inter-poll wait; nil uses a real timer.
	Sleep retry.SleepFunc
}

// stageUpload requests a one-time upload target for the JSONL payload.
func (c *Client) stageUpload(ctx context.Context) (stagedTarget, error) {
	variables := map[string]any{
		"input": []map[string]any{{
			"resource":   "BULK_MUTATION_VARIABLES",
			"filename":   fmt.Sprintf("price-update-%s.jsonl", uuid.NewString()),
			"mimeType":   "text/jsonl",
			"httpMethod": "POST",
		}},
	}

	var result struct {
		StagedUploadsCreate struct {
			StagedTargets []stagedTarget `json:"stagedTargets"`
			UserErrors    []UserError    `json:"userErrors"`
		} `json:"stagedUploadsCreate"`
	}
	if err := c.execute(ctx, "stagedUploadsCreate", stagedUploadsCreateMutation, variables, &result); err != nil {
		return stagedTarget{}, err
	}
	if len(result.StagedUploadsCreate.UserErrors) > 0 {
		return stagedTarget{}, &UserErrorsError{Operation: "stagedUploadsCreate", Errors: result.StagedUploadsCreate.UserErrors}
	}
	if len(result.StagedUploadsCreate.StagedTargets) == 0 {
		return stagedTarget{}, &APIError{Operation: "stagedUploadsCreate", Message: "no staged target returned"}
	}

	return result.StagedUploadsCreate.StagedTargets[0], nil
}

// uploadPayload multipart-posts the JSONL payload to the staged target and
// returns the storage key the bulk mutation will reference.
func (c *Client) uploadPayload(ctx context.Context, target stagedTarget, lines []string) (string, error) {
	var key string
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	// The platform requires its form fields verbatim, before the file part.
	for _, param := range target.Parameters {
		if param.Name == "key" {
			key = param.Value
		}
		if err := writer.WriteField(param.Name, param.Value); err != nil {
			return "", &APIError{Operation: "upload", Message: "writing form field", Cause: err}
		}
	}
	if key == "" {
		return "", &APIError{Operation: "upload", Message: "staged target has no key parameter"}
	}

	part, err := writer.CreateFormFile("file", "payload.jsonl")
	if err != nil {
		return "", &APIError{Operation: "upload", Message: "creating file part", Cause: err}
	}
	if _, err := io.WriteString(part, strings.Join(lines, "\n")); err != nil {
		return "", &APIError{Operation: "upload", Message: "writing payload", Cause: err}
	}
	if err := writer.Close(); err != nil {
		return "", &APIError{Operation: "upload", Message: "finalizing form", Cause: err}
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, target.URL, body.Bytes())
	if err != nil {
		return "", &APIError{Operation: "upload", Message: "building request", Cause: err}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &APIError{Operation: "upload", Message: "request failed", Cause: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", &APIError{Operation: "upload",
			Message: fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(raw)))}
	}

	return key, nil
}

// submitBulkMutation starts the bulk job against the uploaded payload and
// returns the job id.
func (c *Client) submitBulkMutation(ctx context.Context, stagedUploadPath string) (string, error) {
	variables := map[string]any{
		"mutation":         productUpdateMutation,
		"stagedUploadPath": stagedUploadPath,
	}

	var result struct {
		BulkOperationRunMutation struct {
			BulkOperation *struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"bulkOperation"`
			UserErrors []UserError `json:"userErrors"`
		} `json:"bulkOperationRunMutation"`
	}
	if err := c.execute(ctx, "bulkOperationRunMutation", bulkOperationRunMutation, variables, &result); err != nil {
		return "", err
	}
	if len(result.BulkOperationRunMutation.UserErrors) > 0 {
		return "", &UserErrorsError{Operation: "bulkOperationRunMutation", Errors: result.BulkOperationRunMutation.UserErrors}
	}
	if result.BulkOperationRunMutation.BulkOperation == nil {
		return "", &APIError{Operation: "bulkOperationRunMutation", Message: "no bulk operation returned"}
	}

	return result.BulkOperationRunMutation.BulkOperation.ID, nil
}

// jobStatus fetches the current state of a bulk job.
func (c *Client) jobStatus(ctx context.Context, id string) (types.BulkJob, error) {
	var result struct {
		Node *struct {
			ID          string `json:"id"`
			Status      string `json:"status"`
			ErrorCode   string `json:"errorCode"`
			ObjectCount string `json:"objectCount"`
			FileSize    string `json:"fileSize"`
			URL         string `json:"url"`
		} `json:"node"`
	}
	if err := c.execute(ctx, "bulkOperationStatus", bulkStatusQuery, map[string]any{"id": id}, &result); err != nil {
		return types.BulkJob{}, err
	}
	if result.Node == nil {
		return types.BulkJob{}, &APIError{Operation: "bulkOperationStatus", Message: fmt.Sprintf("job %s not found", id)}
	}

	return types.BulkJob{
		ID:          result.Node.ID,
		Status:      types.JobStatus(result.Node.Status),
		ErrorCode:   result.Node.ErrorCode,
		ObjectCount: result.Node.ObjectCount,
		FileSize:    result.Node.FileSize,
		ResultURL:   result.Node.URL,
	}, nil
}

// RunBulkUpdate drives the three-phase bulk protocol: stage the upload,
// deliver the payload, submit the mutation, then poll to a terminal state.
// Any network error at any phase aborts; there is no partial retry here.
func (c *Client) RunBulkUpdate(ctx context.Context, lines []string, opts BulkOptions) (types.BulkJob, error) {
	target, err := c.stageUpload(ctx)
	if err != nil {
		return types.BulkJob{}, err
	}
	fmt.Println("Staged upload target acquired")

	key, err := c.uploadPayload(ctx, target, lines)
	if err != nil {
		return types.BulkJob{}, err
	}
	fmt.Printf("Uploaded %d payload lines (key %s)\n", len(lines), key)

	jobID, err := c.submitBulkMutation(ctx, key)
	if err != nil {
		return types.BulkJob{}, err
	}
	fmt.Printf("Bulk mutation submitted, job id %s\n", jobID)

	job := types.BulkJob{ID: jobID, Status: types.JobCreated}

	pollErr := retry.Poll(ctx, retry.Options{
		Interval:    opts.PollInterval,
		MaxAttempts: opts.MaxAttempts,
		Sleep:       opts.Sleep,
	}, func(ctx context.Context) (bool, error) {
		current, err := c.jobStatus(ctx, jobID)
		if err != nil {
			return false, err
		}
		job = current
		return job.Status.Terminal(), nil
	})

	if errors.Is(pollErr, retry.ErrExhausted) {
		job.Status = types.JobTimedOut
		return job, fmt.Errorf("bulk job %s still running after %d polls", jobID, opts.MaxAttempts)
	}
	if pollErr != nil {
		return job, pollErr
	}

	switch job.Status {
	case types.JobCompleted:
		fmt.Printf("Bulk job completed: %s objects, %s bytes, result %s\n", job.ObjectCount, job.FileSize, job.ResultURL)
		return job, nil
	case types.JobFailed:
		return job, fmt.Errorf("bulk job %s failed with error code %s", jobID, job.ErrorCode)
	default:
		return job, fmt.Errorf("bulk job %s ended in unexpected status %s", jobID, job.Status)
	}
}
