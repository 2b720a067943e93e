package main

import (
	"fmt"
	"log"
	"net/http"

	"go.uber.org/zap"

	"github.com/mindhaven-app/mindhaven-api/api/handlers"
	"github.com/mindhaven-app/mindhaven-api/api/scheduler"
	"github.com/mindhaven-app/mindhaven-api/config"
)

func main() {
	conf, err := config.New()
	if err != nil {
		log.Fatal(err)
	}

	a := handlers.App{}
	a.Config = *conf

	if err := a.Initialize(); err != nil { // initialize database and router
		log.Fatal(err)
	}

	s := scheduler.NewScheduler(a.OTP, a.CRDB, a.UDB)
	s.Start()
	defer s.Stop()

	zap.S().Infow("mindhaven-api is up and running",
		"port", conf.Port,
		"url", conf.BaseURL,
	)
	log.Fatal(http.ListenAndServe(fmt.Sprintf(":%v", conf.Port), a.Router))
}
