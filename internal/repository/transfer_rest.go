package repository

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/iliyamo/flight-transfer-admin/internal/model"
)

// RestConfig holds the settings of a hosted PostgREST endpoint such as
// Supabase.
type RestConfig struct {
	BaseURL string        // project URL, e.g. https://xyz.supabase.co
	APIKey  string        // anon or service role key
	Table   string        // table name, defaults to "transfers"
	Timeout time.Duration // per request timeout, defaults to 15s
}

// RestTransferRepo is a resty-backed TransferStore talking to the PostgREST
// API of a hosted database.
type RestTransferRepo struct {
	httpClient *resty.Client
	table      string
}

// restError is the PostgREST error payload.
type restError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
	Hint    string `json:"hint"`
}

// NewRestTransferRepo builds a client for the /rest/v1 API of cfg.BaseURL.
func NewRestTransferRepo(cfg RestConfig) *RestTransferRepo {
	base := strings.TrimSuffix(cfg.BaseURL, "/")
	table := cfg.Table
	if table == "" {
		table = "transfers"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	restyClient := resty.New()
	restyClient.
		SetBaseURL(base+"/rest/v1").
		SetHeader("apikey", cfg.APIKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.APIKey)).
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &RestTransferRepo{httpClient: restyClient, table: table}
}

// List selects every row ordered by transfer_date descending.
func (r *RestTransferRepo) List(ctx context.Context) ([]model.Transfer, error) {
	var result []model.Transfer
	apiErr := new(restError)

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"select": "*",
			"order":  "transfer_date.desc,id.desc",
		}).
		SetResult(&result).
		SetError(apiErr).
		Get(r.table)
	if err := checkResponse(resp, err, apiErr); err != nil {
		return nil, wrap(OpList, err)
	}
	if result == nil {
		result = make([]model.Transfer, 0)
	}
	return result, nil
}

// Insert posts one row and reads back the stored representation to learn
// its id.
func (r *RestTransferRepo) Insert(ctx context.Context, f model.TransferFields) (model.Transfer, error) {
	var result []model.Transfer
	apiErr := new(restError)

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetBody([]map[string]any{payload(f)}).
		SetResult(&result).
		SetError(apiErr).
		Post(r.table)
	if err := checkResponse(resp, err, apiErr); err != nil {
		return model.Transfer{}, wrap(OpInsert, err)
	}
	if len(result) == 0 {
		return model.Transfer{}, wrap(OpInsert, fmt.Errorf("insert returned no rows"))
	}
	return result[0], nil
}

// Update patches the row matching id.  An empty representation means the
// filter matched nothing.
func (r *RestTransferRepo) Update(ctx context.Context, id uint64, f model.TransferFields) error {
	var result []model.Transfer
	apiErr := new(restError)

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", idFilter(id)).
		SetBody(payload(f)).
		SetResult(&result).
		SetError(apiErr).
		Patch(r.table)
	if err := checkResponse(resp, err, apiErr); err != nil {
		return wrap(OpUpdate, err)
	}
	if len(result) == 0 {
		return wrap(OpUpdate, ErrTransferNotFound)
	}
	return nil
}

// Delete removes the row matching id.
func (r *RestTransferRepo) Delete(ctx context.Context, id uint64) error {
	var result []model.Transfer
	apiErr := new(restError)

	resp, err := r.httpClient.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("id", idFilter(id)).
		SetResult(&result).
		SetError(apiErr).
		Delete(r.table)
	if err := checkResponse(resp, err, apiErr); err != nil {
		return wrap(OpDelete, err)
	}
	if len(result) == 0 {
		return wrap(OpDelete, ErrTransferNotFound)
	}
	return nil
}

func idFilter(id uint64) string {
	return "eq." + strconv.FormatUint(id, 10)
}

// payload spells out every column so that clearing the notes sends an
// explicit null instead of omitting the key.
func payload(f model.TransferFields) map[string]any {
	var notes any
	if f.Notes != "" {
		notes = f.Notes
	}
	return map[string]any{
		"flight_code":         f.FlightCode,
		"transfer_date":       f.TransferDate,
		"transfer_time":       f.TransferTime,
		"destination_pickup":  f.DestinationPickup,
		"destination_dropoff": f.DestinationDropoff,
		"guest_name":          f.GuestName,
		"guest_count":         f.GuestCount,
		"notes":               notes,
	}
}

func checkResponse(resp *resty.Response, err error, apiErr *restError) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		message := ""
		if apiErr != nil {
			message = apiErr.Message
		}
		return fmt.Errorf("rest api error: status=%d, message=%s", resp.StatusCode(), message)
	}
	return nil
}
