package seed

import (
	"context"
	"fmt"
	"io"
	"log"

	"construapp/internal/domain"
)

type productWriter interface {
	MergeUpsert(ctx context.Context, product domain.Product) error
}

type changePublisher interface {
	PublishCatalogChanged(ctx context.Context) error
}

// Fallback returns the static fallback catalog used when the remote store is
// empty or unreachable.
func Fallback(appID string) []domain.Product {
	return []domain.Product{
		{
			ID:          "1",
			AppID:       appID,
			Name:        "Cemento Portland Gris",
			PriceCents:  cents(26000),
			Unit:        "Saco 50kg",
			Category:    "Obra Gris",
			Image:       "cemento",
			Description: "Cemento de alta resistencia.",
			Specs: []domain.Spec{
				{Key: "Resistencia", Value: "30 MPa"},
				{Key: "Peso", Value: "50 kg"},
			},
		},
		{
			ID:          "2",
			AppID:       appID,
			Name:        `Varilla Corrugada 3/8"`,
			PriceCents:  cents(18550),
			Unit:        "Pieza 12m",
			Category:    "Aceros",
			Image:       "varilla",
			Description: "Acero de refuerzo para estructuras.",
			Specs: []domain.Spec{
				{Key: "Diámetro", Value: `3/8"`},
				{Key: "Largo", Value: "12m"},
			},
		},
		{
			ID:          "3",
			AppID:       appID,
			Name:        "Ladrillo Rojo Recocido",
			PriceCents:  cents(750),
			Unit:        "Pieza",
			Category:    "Obra Gris",
			Image:       "ladrillo",
			Description: "Ladrillo de barro recocido para muros.",
			Specs: []domain.Spec{
				{Key: "Medidas", Value: "7x14x28 cm"},
			},
		},
		{
			ID:          "4",
			AppID:       appID,
			Name:        "Arena de Río",
			PriceCents:  cents(35000),
			Unit:        "Metro cúbico",
			Category:    "Agregados",
			Image:       "arena",
			Description: "Arena cribada para mezclas y acabados.",
			Specs: []domain.Spec{
				{Key: "Granulometría", Value: "Fina"},
			},
		},
	}
}

// Apply merge-writes each fallback product keyed by its id. It is idempotent
// and safe to invoke from several clients that observed an empty catalog at
// the same time. One catalog-changed notification is published after the
// batch when a publisher is given.
func Apply(ctx context.Context, appID string, repo productWriter, pub changePublisher, logger *log.Logger) error {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	for _, p := range Fallback(appID) {
		if err := repo.MergeUpsert(ctx, p); err != nil {
			return fmt.Errorf("upsert product %s: %w", p.ID, err)
		}
	}
	logger.Printf("seed: fallback catalog applied app_id=%s", appID)

	if pub != nil {
		if err := pub.PublishCatalogChanged(ctx); err != nil {
			// Writes landed; subscribers will catch up on their next refresh.
			logger.Printf("seed: publish catalog changed: %v", err)
		}
	}
	return nil
}

func cents(v int64) *int64 {
	return &v
}
