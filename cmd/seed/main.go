// seed carga datos iniciales: usuario administrador, categorías y productos con stock inicial.
// Es idempotente: lo que ya existe (email, nombre de categoría, número CAS) se omite.
//
// Uso: go run ./cmd/seed   (usa la misma configuración que la API: DB_DRIVER, DATABASE_URL, SQLITE_PATH...)
package main

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/chemflo-api/internal/application/auth"
	"github.com/jhoicas/chemflo-api/internal/application/dto"
	"github.com/jhoicas/chemflo-api/internal/application/usecase"
	"github.com/jhoicas/chemflo-api/internal/domain"
	"github.com/jhoicas/chemflo-api/internal/domain/entity"
	"github.com/jhoicas/chemflo-api/internal/infrastructure/store"
	"github.com/jhoicas/chemflo-api/pkg/config"
	"github.com/jhoicas/chemflo-api/pkg/logger"
)

const (
	adminEmail    = "admin@chemflo.com"
	adminPassword = "admin123"
	adminName     = "Admin User"
)

type seedCategory struct {
	name, description, color string
}

var categories = []seedCategory{
	{"Acids", "Corrosive substances with pH less than 7", "#ef4444"},
	{"Bases", "Alkaline substances with pH greater than 7", "#3b82f6"},
	{"Solvents", "Liquids used to dissolve other substances", "#8b5cf6"},
	{"Salts", "Ionic compounds formed from acid-base reactions", "#22c55e"},
	{"Oxidizers", "Substances that can cause or contribute to combustion", "#f97316"},
	{"Polymers", "Large molecules composed of repeating structural units", "#ec4899"},
	{"Catalysts", "Substances that increase the rate of chemical reactions", "#14b8a6"},
	{"Petrochemicals", "Chemical products derived from petroleum", "#eab308"},
}

type seedProduct struct {
	name, cas, unit, description, category string
	threshold                              int
	initialStock                           int64
}

var products = []seedProduct{
	{"Sulfuric Acid", "7664-93-9", entity.UnitLITRE, "Strong mineral acid used in various industrial processes", "Acids", 50, 500},
	{"Hydrochloric Acid", "7647-01-0", entity.UnitLITRE, "Strong acid used in pH control and regeneration of ion exchangers", "Acids", 30, 300},
	{"Sodium Hydroxide", "1310-73-2", entity.UnitKG, "Strong base used in manufacturing of paper, textiles, and detergents", "Bases", 100, 1000},
	{"Potassium Hydroxide", "1310-58-3", entity.UnitKG, "Strong base used in fertilizers and as an electrolyte", "Bases", 50, 200},
	{"Acetone", "67-64-1", entity.UnitLITRE, "Common solvent used in cleaning and as a chemical intermediate", "Solvents", 100, 800},
	{"Ethanol", "64-17-5", entity.UnitLITRE, "Versatile solvent and fuel additive", "Solvents", 200, 1500},
	{"Methanol", "67-56-1", entity.UnitLITRE, "Industrial solvent and antifreeze component", "Solvents", 100, 600},
	{"Sodium Chloride", "7647-14-5", entity.UnitKG, "Common salt used in food processing and chemical manufacturing", "Salts", 500, 5000},
	{"Hydrogen Peroxide", "7722-84-1", entity.UnitLITRE, "Oxidizer used in bleaching and disinfection", "Oxidizers", 50, 25},
	{"Polyethylene", "9002-88-4", entity.UnitKG, "Most common plastic polymer", "Polymers", 200, 2000},
	{"Toluene", "108-88-3", entity.UnitLITRE, "Aromatic hydrocarbon used as industrial solvent", "Petrochemicals", 100, 400},
	{"Benzene", "71-43-2", entity.UnitLITRE, "Basic petrochemical used in manufacturing plastics and resins", "Petrochemicals", 50, 150},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := store.Open(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a la base de datos")
	}
	defer db.Close()

	if err := run(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("seed fallido")
	}
	log.Info().Msg("seed completado")
}

func run(ctx context.Context, db *store.Store, log *logger.Logger) error {
	authUC := auth.NewAuthUseCase(db.Users, auth.JWTConfig{})
	created, err := authUC.EnsureUser(ctx, adminEmail, adminPassword, adminName)
	if err != nil {
		return err
	}
	log.Info().Str("email", adminEmail).Bool("created", created).Msg("usuario administrador")

	categoryUC := usecase.NewCategoryUseCase(db.Categories)
	ids := make(map[string]string, len(categories))
	for _, c := range categories {
		id, err := ensureCategory(ctx, categoryUC, db, c)
		if err != nil {
			return err
		}
		ids[c.name] = id
	}

	productUC := usecase.NewProductUseCase(db.TxRunner, db.Products, log)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, p := range products {
		categoryID := ids[p.category]
		g.Go(func() error {
			stock := decimal.NewFromInt(p.initialStock)
			threshold := p.threshold
			description := p.description
			_, err := productUC.Create(gctx, dto.CreateProductRequest{
				Name:              p.name,
				CASNumber:         p.cas,
				Unit:              p.unit,
				Description:       &description,
				CategoryID:        &categoryID,
				LowStockThreshold: &threshold,
				InitialStock:      &stock,
			})
			if errors.Is(err, domain.ErrDuplicate) {
				log.Info().Str("cas", p.cas).Msg("producto ya existe")
				return nil
			}
			return err
		})
	}
	return g.Wait()
}

func ensureCategory(ctx context.Context, uc *usecase.CategoryUseCase, db *store.Store, c seedCategory) (string, error) {
	existing, err := db.Categories.GetByName(ctx, c.name)
	if err != nil {
		return "", err
	}
	if existing != nil {
		return existing.ID, nil
	}
	out, err := uc.Create(ctx, dto.CreateCategoryRequest{Name: c.name, Description: &c.description, Color: &c.color})
	if err != nil {
		return "", err
	}
	return out.ID, nil
}
