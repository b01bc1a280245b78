package handler

import (
	"go-catalog-api/internal/middleware"
	"go-catalog-api/internal/model"
	"go-catalog-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Services are the dependencies of every route under /api/v1.
type Services struct {
	Auth          service.AuthService
	Users         service.UserService
	Dashboard     service.DashboardService
	CategoryTypes service.CategoryTypeService
	Categories    service.CategoryService
	Suppliers     service.SupplierService
	Products      service.ProductService
	Skus          service.SkuService
	Pricelists    service.PricelistService
	Attributes    service.AttributeService
	AttributeSets service.AttributeSetService
	Images        service.ImageService
}

// Register mounts the API on router. Reads are public; every mutation and
// every account route requires a bearer token.
func Register(router fiber.Router, s Services) {
	authHandler := NewAuthHandler(s.Auth)
	userHandler := NewUserHandler(s.Users, s.Auth)
	roleHandler := NewRoleHandler(model.DefaultRoles)
	dashHandler := NewDashboardHandler(s.Dashboard)
	typeHandler := NewCategoryTypeHandler(s.CategoryTypes)
	categoryHandler := NewCategoryHandler(s.Categories, s.Products)
	supplierHandler := NewSupplierHandler(s.Suppliers, s.Products)
	productHandler := NewProductHandler(s.Products, s.Skus)
	skuHandler := NewSkuHandler(s.Skus)
	pricelistHandler := NewPricelistHandler(s.Pricelists)
	attributeHandler := NewAttributeHandler(s.Attributes)
	setHandler := NewAttributeSetHandler(s.AttributeSets)
	imageHandler := NewImageHandler(s.Images)

	requireAuth := middleware.RequireAuth(s.Auth)
	requireAdmin := middleware.RequireAdmin()
	requireManager := middleware.RequireManager()

	// ============ AUTH ============
	auth := router.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/refresh", authHandler.Refresh)
	auth.Post("/logout", requireAuth, authHandler.Logout)
	auth.Get("/me", requireAuth, authHandler.Me)

	profile := router.Group("/profile", requireAuth)
	profile.Get("/me", userHandler.GetProfile)
	profile.Put("/me", userHandler.UpdateProfile)
	profile.Post("/change-password", userHandler.ChangePassword)

	users := router.Group("/users", requireAuth, requireAdmin)
	users.Get("/", userHandler.GetUsers)
	users.Post("/", userHandler.CreateUser)
	users.Get("/:id", userHandler.GetUser)
	users.Put("/:id", userHandler.UpdateUser)
	users.Delete("/:id", userHandler.DeleteUser)

	router.Get("/roles", roleHandler.GetRoles)

	router.Get("/dashboard/stats", requireAuth, dashHandler.GetDashboardStats)
	router.Get("/dashboard/activity", requireAuth, requireManager, dashHandler.GetCatalogActivity)

	// ============ CATALOG ============
	types := router.Group("/category-types")
	types.Get("/", typeHandler.List)
	types.Get("/:id", typeHandler.Get)
	types.Post("/", requireAuth, typeHandler.Create)
	types.Put("/:id", requireAuth, typeHandler.Update)
	types.Delete("/:id", requireAuth, typeHandler.Delete)

	categories := router.Group("/categories")
	categories.Get("/", categoryHandler.List)
	categories.Get("/:id", categoryHandler.Get)
	categories.Get("/:id/children", categoryHandler.Children)
	categories.Get("/:id/products", categoryHandler.Products)
	categories.Post("/", requireAuth, categoryHandler.Create)
	categories.Put("/:id", requireAuth, categoryHandler.Update)
	categories.Delete("/:id", requireAuth, categoryHandler.Delete)

	suppliers := router.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Get("/:id", supplierHandler.Get)
	suppliers.Get("/:id/products", supplierHandler.Products)
	suppliers.Post("/", requireAuth, supplierHandler.Create)
	suppliers.Put("/:id", requireAuth, supplierHandler.Update)
	suppliers.Delete("/:id", requireAuth, supplierHandler.Delete)

	products := router.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.Get)
	products.Get("/:id/skus", productHandler.Skus)
	products.Post("/", requireAuth, productHandler.Create)
	products.Put("/:id", requireAuth, productHandler.Update)
	products.Delete("/:id", requireAuth, productHandler.Delete)

	skus := router.Group("/skus")
	skus.Get("/", skuHandler.List)
	skus.Get("/:id", skuHandler.Get)
	skus.Post("/", requireAuth, skuHandler.Create)
	skus.Put("/:id", requireAuth, skuHandler.Update)
	skus.Delete("/:id", requireAuth, skuHandler.Delete)

	pricelists := router.Group("/pricelists")
	pricelists.Get("/", pricelistHandler.List)
	pricelists.Get("/:id", pricelistHandler.Get)
	pricelists.Post("/", requireAuth, pricelistHandler.Create)
	pricelists.Put("/:id", requireAuth, pricelistHandler.Update)
	pricelists.Delete("/:id", requireAuth, pricelistHandler.Delete)

	attributes := router.Group("/attributes")
	attributes.Get("/", attributeHandler.List)
	attributes.Get("/:id", attributeHandler.Get)
	attributes.Post("/", requireAuth, attributeHandler.Create)
	attributes.Put("/:id", requireAuth, attributeHandler.Update)
	attributes.Delete("/:id", requireAuth, attributeHandler.Delete)

	sets := router.Group("/attribute-sets")
	sets.Get("/", setHandler.List)
	sets.Get("/:id", setHandler.Get)
	sets.Post("/", requireAuth, setHandler.Create)
	sets.Put("/:id", requireAuth, setHandler.Update)
	sets.Delete("/:id", requireAuth, setHandler.Delete)

	images := router.Group("/images")
	images.Get("/", imageHandler.List)
	images.Get("/:id", imageHandler.Get)
}
