package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/bringout/fiskal-api/internal/application/auth"
	"github.com/bringout/fiskal-api/internal/application/billing"
	"github.com/bringout/fiskal-api/internal/domain/entity"
)

// RouterDeps holds the handler dependencies for the router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	CompanyUC  *billing.CompanyUseCase
	PartnerUC  *billing.PartnerUseCase
	InvoiceUC  *billing.InvoiceUseCase
	Orch       *billing.FiskalOrchestrator
	PDFUC      *billing.PDFUseCase
	SettingsUC *billing.SettingsUseCase
	JWTSecret  string
}

// Router registers the API routes.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	api := app.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Companies: creation is public so a tenant can register itself,
	// the rest requires a Bearer token.
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	api.Post("/companies", companyHandler.Create)

	// Protected routes (Bearer token required)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	protected.Get("/companies/me", companyHandler.Me)
	protected.Put("/companies/me", RequireRole(entity.RoleAdmin), companyHandler.Update)

	// Partners (protected)
	partners := protected.Group("/partners")
	partnerHandler := NewPartnerHandler(deps.PartnerUC)
	partners.Post("/", partnerHandler.Create)
	partners.Get("/", partnerHandler.List)
	partners.Get("/:id", partnerHandler.GetByID)
	partners.Put("/:id", partnerHandler.Update)
	partners.Post("/:id/validate", partnerHandler.Validate)

	// Invoices and fiscal operations (protected)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Orch, deps.PDFUC)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Post("/:id/fiskaliziraj", invoiceHandler.Fiskaliziraj)
	invoices.Post("/:id/cancel", invoiceHandler.Cancel)
	invoices.Get("/:id/duplikat", invoiceHandler.Duplikat)
	invoices.Get("/:id/fiskalni-json", invoiceHandler.FiskalniJSON)
	invoices.Get("/:id/fiskalni-odgovor", invoiceHandler.FiskalniOdgovor)
	invoices.Get("/:id/racun.pdf", invoiceHandler.ReceiptPDF)

	// Fiscal settings (protected, admin only)
	settings := protected.Group("/settings", RequireRole(entity.RoleAdmin))
	settingsHandler := NewSettingsHandler(deps.SettingsUC)
	settings.Get("/fiskal", settingsHandler.GetFiskal)
	settings.Put("/fiskal", settingsHandler.UpdateFiskal)
}
