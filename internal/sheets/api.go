package sheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/saladlab/consult-tags/internal/common"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// API is the subset of the Sheets v4 service the client uses.
type API interface {
	GetSpreadsheet(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error)
	GetValues(ctx context.Context, spreadsheetID, readRange string) (*sheets.ValueRange, error)
	UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values *sheets.ValueRange) error
	BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error)
}

type googleAPI struct {
	service *sheets.Service
}

func (g *googleAPI) GetSpreadsheet(ctx context.Context, spreadsheetID string) (*sheets.Spreadsheet, error) {
	ss, err := g.service.Spreadsheets.Get(spreadsheetID).Context(ctx).Do()
	return ss, classifyError(err)
}

func (g *googleAPI) GetValues(ctx context.Context, spreadsheetID, readRange string) (*sheets.ValueRange, error) {
	vr, err := g.service.Spreadsheets.Values.Get(spreadsheetID, readRange).Context(ctx).Do()
	return vr, classifyError(err)
}

func (g *googleAPI) UpdateValues(ctx context.Context, spreadsheetID, writeRange string, values *sheets.ValueRange) error {
	_, err := g.service.Spreadsheets.Values.Update(spreadsheetID, writeRange, values).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return classifyError(err)
}

func (g *googleAPI) BatchUpdate(ctx context.Context, spreadsheetID string, requests []*sheets.Request) (*sheets.BatchUpdateSpreadsheetResponse, error) {
	resp, err := g.service.Spreadsheets.BatchUpdate(spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
		Requests: requests,
	}).Context(ctx).Do()
	return resp, classifyError(err)
}

// classifyError maps Sheets API failures onto the retry taxonomy: 429 and
// 5xx are retried, other API errors are permanent.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code >= http.StatusInternalServerError:
		return &common.RetryableError{Err: err, Retryable: true}
	case apiErr.Code == http.StatusBadRequest && isRangeError(apiErr):
		return common.Permanent(fmt.Errorf("%w: %w", common.ErrSheetNotFound, err))
	default:
		return common.Permanent(err)
	}
}

// isRangeError reports whether the API rejected a range naming a missing tab.
func isRangeError(apiErr *googleapi.Error) bool {
	const msg = "Unable to parse range"
	if strings.HasPrefix(apiErr.Message, msg) {
		return true
	}
	for _, item := range apiErr.Errors {
		if strings.HasPrefix(item.Message, msg) {
			return true
		}
	}
	return false
}

// createSheetsService creates a Google Sheets API service.
func createSheetsService(ctx context.Context, config Config) (*sheets.Service, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, sheets.SpreadsheetsScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}
		if config.RefreshToken == "" {
			saved, err := LoadToken(config.TokenFile)
			if err != nil {
				return nil, fmt.Errorf("unable to load oauth token from %s: %w", config.TokenFile, err)
			}
			token = saved
		}

		tokenSource = newOAuthConfig(config.ClientID, config.ClientSecret, "").TokenSource(ctx, token)
	}

	httpClient := oauth2.NewClient(ctx, tokenSource)
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	return srv, nil
}
