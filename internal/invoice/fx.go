package invoice

import (
	"github.com/procurahq/procura/internal/invoice/repository"
	"github.com/procurahq/procura/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
