package api

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fsdevblog/smmpanel/internal/domain"
)

type ServicesHandler struct {
	svs CatalogServicer
}

func NewServicesHandler(svs CatalogServicer) *ServicesHandler {
	return &ServicesHandler{
		svs: svs,
	}
}

type ServiceResponse struct {
	ServiceID int64  `json:"service"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Type      string `json:"type"`
	Min       int    `json:"min"`
	Max       int    `json:"max"`
	Price     string `json:"rate"`
}

// Index GET RouteGroup + ServicesRoute. Каталог отдается из локального кэша; юзер видит
// только конечную цену, сырая цена провайдера и наценка наружу не уходят.
func (s *ServicesHandler) Index(c *gin.Context) {
	reqCtx, cancel := context.WithTimeout(c, DefaultServiceTimeout)
	defer cancel()

	services, err := s.svs.ListActive(reqCtx)
	if err != nil {
		_ = c.AbortWithError(http.StatusInternalServerError, err).SetType(gin.ErrorTypePrivate)
		return
	}

	response := make([]ServiceResponse, len(services))
	for i, service := range services {
		response[i] = ServiceResponse{
			ServiceID: service.ServiceID,
			Name:      service.Name,
			Category:  service.Category,
			Type:      service.Type,
			Min:       service.Min,
			Max:       service.Max,
			Price:     service.FinalPrice.StringFixed(domain.MoneyScale),
		}
	}

	c.JSON(http.StatusOK, gin.H{"services": response})
}
