package transaction

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/mosslake/finledger/internal/handlers/v1/apiutil"
	"github.com/mosslake/finledger/internal/ledger"
	"github.com/mosslake/finledger/internal/logging"
	"github.com/mosslake/finledger/internal/service"
)

// ListTransactionsInput is the Huma input for listing transactions. All
// filters are optional.
type ListTransactionsInput struct {
	UserID    string `header:"X-User-ID" required:"true" doc:"Caller's user UUID"`
	AccountID string `query:"accountId" format:"uuid" doc:"Only this account"`
	Type      string `query:"type" enum:",expense,income,transfer" doc:"Only this type"`
	Category  string `query:"category" doc:"Only this category"`
	Status    string `query:"status" enum:",pending,completed,cancelled" doc:"Only this status"`
	DateFrom  string `query:"dateFrom" format:"date-time" doc:"Inclusive lower date bound"`
	DateTo    string `query:"dateTo" format:"date-time" doc:"Inclusive upper date bound"`
	SortBy    string `query:"sortBy" enum:",date,amount,category,created_at" doc:"Sort key, defaults to date"`
	SortOrder string `query:"sortOrder" enum:",asc,desc" doc:"Sort direction, defaults to desc"`
	Page      int    `query:"page" minimum:"0" doc:"1-based page number"`
	PageSize  int    `query:"pageSize" minimum:"0" maximum:"100" doc:"Page size, defaults to 20"`
}

// ListTransactionsResponseBody is the response body for listing transactions.
type ListTransactionsResponseBody struct {
	Items      []Transaction `json:"items" doc:"Page of transactions"`
	Total      int64         `json:"total" doc:"Total rows matching the filter"`
	Page       int           `json:"page" doc:"1-based page number"`
	TotalPages int           `json:"totalPages" doc:"Total pages at this page size"`
}

// ListTransactionsOutput is the Huma output for listing transactions.
type ListTransactionsOutput struct {
	Body ListTransactionsResponseBody
}

// transactionLister is the service slice the list handler needs.
type transactionLister interface {
	List(ctx context.Context, in service.TransactionListInput) (*service.TransactionPage, error)
}

// ListTransactionsHandler handles GET /v1/transactions.
type ListTransactionsHandler struct {
	TransactionService transactionLister
}

// NewListTransactionsHandler creates a new ListTransactionsHandler.
func NewListTransactionsHandler(svc transactionLister) *ListTransactionsHandler {
	return &ListTransactionsHandler{TransactionService: svc}
}

// Register registers the list transactions endpoint with the Huma API.
func (h *ListTransactionsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-transactions",
		Method:      http.MethodGet,
		Path:        "/v1/transactions",
		Summary:     "List transactions",
		Description: "Returns a filtered, sorted page of transactions with totals.",
		Tags:        []string{"Transactions"},
	}, h.handle)
}

// parseListTransactionsInput parses and validates the API input.
func parseListTransactionsInput(input *ListTransactionsInput) (service.TransactionListInput, error) {
	userID, err := apiutil.ParseUserID(input.UserID)
	if err != nil {
		return service.TransactionListInput{}, err
	}

	list := service.TransactionListInput{
		UserID:    userID,
		SortBy:    input.SortBy,
		SortOrder: input.SortOrder,
		Page:      input.Page,
		PageSize:  input.PageSize,
	}

	if input.AccountID != "" {
		accountID, err := apiutil.ParseID(input.AccountID, "accountId")
		if err != nil {
			return service.TransactionListInput{}, err
		}
		list.AccountID = &accountID
	}
	if input.Type != "" {
		txType := ledger.TransactionType(input.Type)
		list.Type = &txType
	}
	if input.Category != "" {
		category := input.Category
		list.Category = &category
	}
	if input.Status != "" {
		status := ledger.TransactionStatus(input.Status)
		list.Status = &status
	}
	if input.DateFrom != "" {
		from, err := time.Parse(time.RFC3339, input.DateFrom)
		if err != nil {
			return service.TransactionListInput{}, huma.NewError(http.StatusBadRequest, "invalid dateFrom", err)
		}
		list.DateFrom = &from
	}
	if input.DateTo != "" {
		to, err := time.Parse(time.RFC3339, input.DateTo)
		if err != nil {
			return service.TransactionListInput{}, huma.NewError(http.StatusBadRequest, "invalid dateTo", err)
		}
		list.DateTo = &to
	}
	return list, nil
}

func (h *ListTransactionsHandler) handle(ctx context.Context, input *ListTransactionsInput) (*ListTransactionsOutput, error) {
	logData := logging.GetLogData(ctx)
	listInput, err := parseListTransactionsInput(input)
	if err != nil {
		return nil, err
	}

	var stopTimer func()
	if logData != nil {
		stopTimer = logData.AddTiming("listTransactionsMs")
	}
	page, err := h.TransactionService.List(ctx, listInput)
	if stopTimer != nil {
		stopTimer()
	}
	if err != nil {
		return nil, apiutil.MapError(err, "failed to list transactions")
	}

	if logData != nil {
		logData.AddData("transactionCount", len(page.Items))
	}

	resp := ListTransactionsResponseBody{
		Items:      make([]Transaction, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		TotalPages: page.TotalPages,
	}
	for i, tx := range page.Items {
		resp.Items[i] = fromLedger(tx)
	}
	return &ListTransactionsOutput{Body: resp}, nil
}
