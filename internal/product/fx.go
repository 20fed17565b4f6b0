package product

import (
	"github.com/procurahq/procura/internal/product/repository"
	"github.com/procurahq/procura/internal/product/service"
	"go.uber.org/fx"
)

var Module = fx.Module("product.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
