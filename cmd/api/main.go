package main

import (
	"context"

	"clinicdesk/cmd/internal/config"
	"clinicdesk/cmd/internal/domain/sqlite"
	"clinicdesk/cmd/internal/domain/sqlite/repository"
	cognitoclient "clinicdesk/cmd/internal/integration/aws/cognito"
	"clinicdesk/cmd/internal/integration/identity"
	"clinicdesk/cmd/internal/integration/local"
	"clinicdesk/cmd/internal/routes"
	"clinicdesk/cmd/internal/service"
	"clinicdesk/cmd/internal/utils"
	"clinicdesk/cmd/internal/utils/validators"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load configuration: ", err)
	}

	validate := validators.New()

	// Init SQLite
	db, err := sqlite.Init(cfg.DatabasePath)
	if err != nil {
		log.Fatal("failed to initialize database: ", err)
	}

	idp, err := initIdentityProvider(cfg, db)
	if err != nil {
		log.Fatal("failed to initialize identity provider: ", err)
	}
	tokens := utils.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)

	// Getting repositories
	userRepo := repository.NewUserRepository(db)
	apptRepo := repository.NewAppointmentRepository(db)
	patientRepo := repository.NewPatientRepository(db)
	rxRepo := repository.NewPrescriptionRepository(db)

	// Getting services
	userService := service.NewUserService(userRepo, validate, idp, tokens)
	apptService := service.NewAppointmentService(apptRepo, validate, cfg.DayEndMinutes())
	patientService := service.NewPatientService(patientRepo, validate)
	rxService := service.NewPrescriptionService(rxRepo, patientRepo, validate)
	dashboardService := service.NewDashboardService(apptRepo, patientRepo, rxRepo)
	reportService := service.NewReportService(apptRepo, patientRepo, rxRepo, validate)

	// Getting routes
	router := &routes.Router{
		Users:         routes.NewUserDefault(userService),
		Appointments:  routes.NewAppointmentDefault(apptService),
		Patients:      routes.NewPatientDefault(patientService),
		Prescriptions: routes.NewPrescriptionDefault(rxService),
		Dashboard:     routes.NewDashboardDefault(dashboardService),
		Reports:       routes.NewReportDefault(reportService),
	}

	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(log.INFO)
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}))

	router.Register(e, tokens.RequireAuth())

	log.Infof("clinic day ends at %s, identity provider: %s", cfg.DayEnd, cfg.AuthProvider)
	err = e.Start(":" + cfg.Port)
	if err != nil {
		e.Logger.Fatal(err)
	}
}

func initIdentityProvider(cfg *config.Config, db *gorm.DB) (identity.Provider, error) {
	if cfg.AuthProvider == config.ProviderCognito {
		client, err := cognitoclient.InitCognitoClient(context.Background(), cfg.AWSRegion, cfg.CognitoClientID, cfg.CognitoUserPoolID)
		if err != nil {
			return nil, err
		}
		return client, nil
	}
	return local.New(db), nil
}
