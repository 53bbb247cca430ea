package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/mosslake/finledger/internal/handlers/v1/account"
	"github.com/mosslake/finledger/internal/handlers/v1/loan"
	"github.com/mosslake/finledger/internal/handlers/v1/recurring"
	"github.com/mosslake/finledger/internal/handlers/v1/status"
	"github.com/mosslake/finledger/internal/handlers/v1/transaction"
	"github.com/mosslake/finledger/internal/logging"
	"github.com/mosslake/finledger/internal/operator"
	"github.com/mosslake/finledger/internal/service"
)

type Rest struct {
	Logger   *logrus.Logger
	Port     string
	Service  *service.Service
	Operator *operator.OperatorDelegator
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	humaAPI := humago.New(mux, huma.DefaultConfig("finledger", "1.0.0"))
	humaAPI.UseMiddleware(func(ctx huma.Context, next func(huma.Context)) {
		logData := logging.NewLogData(r.Logger)
		next(huma.WithContext(ctx, logging.WithLogData(ctx.Context(), logData)))
	})

	transaction.NewCreateTransactionHandler(r.Operator).Register(humaAPI)
	transaction.NewUpdateTransactionHandler(r.Operator).Register(humaAPI)
	transaction.NewDeleteTransactionHandler(r.Operator).Register(humaAPI)
	transaction.NewGetTransactionHandler(r.Service.Transaction).Register(humaAPI)
	transaction.NewListTransactionsHandler(r.Service.Transaction).Register(humaAPI)

	account.NewCreateAccountHandler(r.Operator).Register(humaAPI)
	account.NewUpdateAccountHandler(r.Operator).Register(humaAPI)
	account.NewRebuildAccountHandler(r.Operator).Register(humaAPI)
	account.NewGetAccountHandler(r.Service.Account).Register(humaAPI)
	account.NewListAccountsHandler(r.Service.Account).Register(humaAPI)

	recurring.NewCreateTemplateHandler(r.Operator).Register(humaAPI)
	recurring.NewUpdateTemplateHandler(r.Operator).Register(humaAPI)
	recurring.NewDeleteTemplateHandler(r.Operator).Register(humaAPI)
	recurring.NewExecuteTemplateHandler(r.Operator).Register(humaAPI)
	recurring.NewSkipOccurrenceHandler(r.Operator).Register(humaAPI)
	recurring.NewGetTemplateHandler(r.Service.Recurring).Register(humaAPI)
	recurring.NewListTemplatesHandler(r.Service.Recurring).Register(humaAPI)
	recurring.NewGetScheduleHandler(r.Service.Recurring).Register(humaAPI)
	recurring.NewGetExecutedDatesHandler(r.Service.Recurring).Register(humaAPI)

	loan.NewGetScheduleHandler(r.Service.Loan).Register(humaAPI)
	loan.NewGetNextPaymentHandler(r.Service.Loan).Register(humaAPI)
	loan.NewGetProgressHandler(r.Service.Loan).Register(humaAPI)

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
