package main

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/mosslake/finledger/api"
	"github.com/mosslake/finledger/internal/config"
	"github.com/mosslake/finledger/internal/logging"
	"github.com/mosslake/finledger/internal/operator"
	"github.com/mosslake/finledger/internal/service"
	"github.com/mosslake/finledger/internal/storage"
)

func main() {
	logger := logging.SetupLogging()
	logrus.Info("finledger starting")

	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	dbStorage := storage.NewStorage(envConfig)
	svc := service.NewService(dbStorage)

	op := operator.NewOperatorDelegator(dbStorage, 4)
	op.Start()
	defer op.Stop()

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:   logger,
			Port:     envConfig.Port,
			Service:  svc,
			Operator: op,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}
