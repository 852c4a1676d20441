package app

import (
	"time"

	"pycompat/internal/adapters"
	"pycompat/internal/ports"
)

type Service struct {
	Store      ports.StorePort
	Checker    ports.CheckerPort
	Registry   ports.RegistryPort
	GridWriter ports.GridPort
	Portfolio  ports.PortfolioPort
	Clock      func() time.Time
}

func NewService(store ports.StorePort, checker ports.CheckerPort) Service {
	return Service{
		Store:      store,
		Checker:    checker,
		Registry:   adapters.NewRegistryPyPIAdapter("", 0),
		GridWriter: adapters.NewGridHTMLAdapter(),
		Portfolio:  adapters.NewPortfolioFileAdapter(),
		Clock:      time.Now,
	}
}
