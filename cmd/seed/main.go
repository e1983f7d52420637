// seed crea datos de demostración: un usuario admin, una empresa, un
// contacto y un deal B2B de ejemplo. Pensado para entornos de desarrollo.
//
// Uso: go run ./cmd/seed
// Lee la misma configuración que cmd/api (env vars / .env).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jhoicas/crm-api/internal/application/auth"
	"github.com/jhoicas/crm-api/internal/application/deals"
	"github.com/jhoicas/crm-api/internal/application/dto"
	"github.com/jhoicas/crm-api/internal/application/usecase"
	"github.com/jhoicas/crm-api/internal/domain"
	"github.com/jhoicas/crm-api/internal/domain/entity"
	"github.com/jhoicas/crm-api/internal/infrastructure/postgres"
	"github.com/jhoicas/crm-api/pkg/config"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "conexión a PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	dealRepo := postgres.NewDealRepository(pool)
	companyRepo := postgres.NewCompanyRepository(pool)
	contactRepo := postgres.NewContactRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	contactUC := usecase.NewContactUseCase(txRunner, contactRepo)
	dealUC := deals.NewDealUseCase(txRunner, dealRepo)

	admin, err := authUC.RegisterUser(dto.RegisterRequest{
		Email:    "admin@crm-pro.local",
		Password: "admin12345",
		Name:     "Administrador",
		Role:     entity.RoleAdmin,
	})
	if err != nil {
		if err == domain.ErrEmailAlreadyExists {
			fmt.Println("seed ya aplicado: admin existe")
			return
		}
		fmt.Fprintf(os.Stderr, "crear admin: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("admin creado: %s\n", admin.User.ID)

	company, err := companyUC.Create(dto.CreateCompanyRequest{
		Name:     "Acme Corp",
		Industry: "manufactura",
		Size:     "medium",
		Email:    "ventas@acme.example",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "crear empresa: %v\n", err)
		os.Exit(1)
	}

	contact, err := contactUC.Create(ctx, dto.CreateContactRequest{
		Name:        "Laura Gómez",
		Email:       "laura@acme.example",
		ContactType: entity.ContactTypeBusiness,
		CompanyID:   &company.ID,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "crear contacto: %v\n", err)
		os.Exit(1)
	}

	amount := decimal.NewFromInt(5000)
	deal, err := dealUC.Create(ctx, admin.User.ID, dto.CreateDealRequest{
		Name:               "Contrato Acme",
		DealType:           entity.DealTypeB2B,
		Stage:              entity.StageProspecting,
		ContactID:          contact.ID,
		CompanyID:          company.ID,
		Amount:             &amount,
		Currency:           "USD",
		ClosingProbability: 25,
		Sector:             "manufactura",
		ContractType:       "anual",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "crear deal: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("deal creado: %s (empresa %s)\n", deal.ID, company.ID)
}
