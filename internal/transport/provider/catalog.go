package provider

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/fsdevblog/smmpanel/internal/service"
)

const defaultCatalogInterval = 6 * time.Hour

// CatalogSyncer периодически тянет каталог услуг провайдера и обновляет локальный кэш.
// Первая синхронизация выполняется сразу при старте, чтобы каталог был доступен до
// первого тика.
type CatalogSyncer struct {
	client   Client
	svs      CatalogServicer
	l        *logrus.Entry
	interval time.Duration
}

func NewCatalogSyncer(svs CatalogServicer, apiClient Client, l *logrus.Logger) *CatalogSyncer {
	return &CatalogSyncer{
		svs:    svs,
		client: apiClient,
		l: l.WithFields(logrus.Fields{
			"component": "provider",
			"module":    "catalog",
		}),
		interval: defaultCatalogInterval,
	}
}

// SetInterval устанавливает паузу между синхронизациями каталога.
func (c *CatalogSyncer) SetInterval(interval time.Duration) *CatalogSyncer {
	c.interval = interval
	return c
}

// Run запускает цикл синхронизации до отмены контекста.
func (c *CatalogSyncer) Run(ctx context.Context) {
	c.l.WithField("interval", c.interval.String()).Info("Starting")

	if err := c.Sync(ctx); err != nil {
		c.l.WithError(err).Error("initial catalog sync failed")
	}

	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			c.l.Info("Got stop signal, exiting...")
			return
		case <-ticker.C:
			if err := c.Sync(ctx); err != nil {
				c.l.WithError(err).Error("catalog sync failed")
			}
		}
	}
}

// Sync одна синхронизация: выгрузка каталога у провайдера и запись в локальный кэш.
func (c *CatalogSyncer) Sync(ctx context.Context) error {
	reqCtx, cancel := context.WithTimeout(ctx, defaultAPITimeout)
	defer cancel()

	items, err := c.client.Services(reqCtx)
	if err != nil {
		return err //nolint:wrapcheck
	}

	catalog := make([]service.CatalogItem, 0, len(items))
	for _, item := range items {
		catalog = append(catalog, service.CatalogItem{
			ServiceID: item.ServiceID,
			Name:      item.Name,
			Category:  item.Category,
			Type:      item.Type,
			Min:       item.Min,
			Max:       item.Max,
			Rate:      item.Rate,
		})
	}

	applyCtx, cancel := context.WithTimeout(ctx, defaultServiceTimeout)
	defer cancel()

	if applyErr := c.svs.ApplyCatalog(applyCtx, catalog); applyErr != nil {
		return applyErr //nolint:wrapcheck
	}
	c.l.WithField("services", len(catalog)).Info("catalog synced")
	return nil
}
