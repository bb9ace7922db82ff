package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog"

	"github.com/Stiven2023/vio-app-sub001/internal/application/conversion"
	"github.com/Stiven2023/vio-app-sub001/internal/application/orders"
	"github.com/Stiven2023/vio-app-sub001/internal/application/policy"
	"github.com/Stiven2023/vio-app-sub001/internal/application/thirdparty"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	OrderUC      *orders.OrderUseCase
	ConversionUC *conversion.UseCase
	ClientUC     *thirdparty.ClientUseCase
	Permissions  permissionChecker
	JWTSecret    string
	Log          zerolog.Logger
}

// NewApp crea la aplicación Fiber con los timeouts y el recover de la API.
func NewApp(name string) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      name,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	})
	app.Use(recover.New())
	return app
}

// Router registra las rutas de la API. Todas requieren Bearer Token y un permiso por ruta.
func Router(app *fiber.App, deps RouterDeps) {
	perm := func(p string) fiber.Handler { return RequirePermission(deps.Permissions, p) }

	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	// Pedidos y líneas
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Log)
	ordersGroup := api.Group("/orders")
	ordersGroup.Post("/", perm(policy.PermCrearPedido), orderHandler.Create)
	ordersGroup.Get("/", perm(policy.PermVerPedidos), orderHandler.List)
	ordersGroup.Get("/:id", perm(policy.PermVerPedidos), orderHandler.Get)
	ordersGroup.Put("/:id", perm(policy.PermEditarPedido), orderHandler.Update)
	ordersGroup.Put("/:id/status", perm(policy.PermCambiarEstadoPedido), orderHandler.ChangeStatus)
	ordersGroup.Get("/:id/history", perm(policy.PermVerPedidos), orderHandler.History)
	ordersGroup.Delete("/:id", perm(policy.PermEliminarPedido), orderHandler.Delete)
	ordersGroup.Post("/:id/items", perm(policy.PermEditarPedido), orderHandler.AddItem)
	ordersGroup.Put("/:id/items/:itemId", perm(policy.PermEditarPedido), orderHandler.UpdateItem)
	ordersGroup.Put("/:id/items/:itemId/status", perm(policy.PermCambiarEstadoDiseno), orderHandler.ChangeItemStatus)
	ordersGroup.Get("/:id/items/:itemId/history", perm(policy.PermVerPedidos), orderHandler.ItemHistory)
	ordersGroup.Delete("/:id/items/:itemId", perm(policy.PermEditarPedido), orderHandler.DeleteItem)

	// Cotizaciones
	conversionHandler := NewConversionHandler(deps.ConversionUC, deps.Log)
	api.Post("/quotations/:id/convert", perm(policy.PermAprobarPrefactura), conversionHandler.Convert)

	// Clientes
	clientHandler := NewClientHandler(deps.ClientUC, deps.Log)
	clients := api.Group("/clients")
	clients.Post("/", perm(policy.PermCrearCliente), clientHandler.Create)
	clients.Get("/:id", perm(policy.PermVerClientes), clientHandler.Get)
	clients.Put("/:id", perm(policy.PermEditarCliente), clientHandler.Update)
	clients.Post("/:id/legal-status", perm(policy.PermEditarCliente), clientHandler.SetLegalStatus)
}
