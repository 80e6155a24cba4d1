package httpserver

import (
	"context"
	"log"

	"foodorder/internal/domain"
	menuitemrepo "foodorder/internal/repository/menuitem"
	restaurantrepo "foodorder/internal/repository/restaurant"
	catalogsvc "foodorder/internal/service/catalog"
	ordersvc "foodorder/internal/service/order"
	usersvc "foodorder/internal/service/user"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Deps carries the services the handlers call. Interfaces are defined on the
// consumer side so tests can stub them.
type Deps struct {
	UserSvc    userService
	CatalogSvc catalogService
	CartSvc    cartService
	OrderSvc   orderService
	PaymentSvc paymentService
}

type userService interface {
	Signup(ctx context.Context, in usersvc.SignupInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (*domain.User, string, string, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.User, string, string, error)
	Logout(ctx context.Context, userID string) error
	LookupByToken(ctx context.Context, token string) (*domain.User, error)
	Get(ctx context.Context, id domain.Identity, userID string) (*domain.User, error)
	Update(ctx context.Context, id domain.Identity, userID string, in usersvc.UpdateInput) (*domain.User, error)
	Delete(ctx context.Context, id domain.Identity, userID string) error
	AccessTTLSeconds() int
}

type catalogService interface {
	CreateRestaurant(ctx context.Context, id domain.Identity, in catalogsvc.RestaurantInput) (*domain.Restaurant, error)
	GetRestaurant(ctx context.Context, restID string) (*domain.Restaurant, error)
	ListRestaurants(ctx context.Context) ([]domain.Restaurant, error)
	UpdateRestaurant(ctx context.Context, id domain.Identity, restID string, in restaurantrepo.UpdateInput) (*domain.Restaurant, error)
	DeleteRestaurant(ctx context.Context, id domain.Identity, restID string) error
	CreateMenuItem(ctx context.Context, id domain.Identity, in catalogsvc.MenuItemInput) (*domain.MenuItem, error)
	GetMenuItem(ctx context.Context, itemID string) (*domain.MenuItem, error)
	ListMenuItems(ctx context.Context, restaurantID string) ([]domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id domain.Identity, itemID string, in menuitemrepo.UpdateInput) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id domain.Identity, itemID string) error
}

type cartService interface {
	GetCarts(ctx context.Context, id domain.Identity) ([]domain.Cart, error)
	AddItem(ctx context.Context, id domain.Identity, menuItemID string, quantity int) (*domain.Cart, error)
	UpdateItem(ctx context.Context, id domain.Identity, menuItemID string, quantity int) (*domain.Cart, error)
	RemoveItem(ctx context.Context, id domain.Identity, menuItemID string) (*domain.Cart, error)
	ClearCart(ctx context.Context, id domain.Identity) (*domain.Cart, error)
}

type orderService interface {
	Create(ctx context.Context, id domain.Identity) (*domain.Order, error)
	Get(ctx context.Context, id domain.Identity, orderID string) (*domain.Order, error)
	List(ctx context.Context, id domain.Identity) ([]domain.Order, []domain.Payment, error)
	UpdateStatus(ctx context.Context, id domain.Identity, orderID string, next domain.OrderStatus) (*ordersvc.StatusResult, error)
	Cancel(ctx context.Context, id domain.Identity, orderID string) (*ordersvc.StatusResult, error)
}

type paymentService interface {
	Partition(ctx context.Context, order *domain.Order) ([]domain.Payment, error)
	Get(ctx context.Context, id domain.Identity, paymentID string) (*domain.Payment, error)
	ListByOrder(ctx context.Context, id domain.Identity, orderID string) ([]domain.Payment, error)
	UpdateStatus(ctx context.Context, id domain.Identity, paymentID string, status domain.PaymentStatus) (*domain.Payment, error)
	UpdateMethod(ctx context.Context, id domain.Identity, paymentID string, method domain.PaymentMethod) (*domain.Payment, error)
	Delete(ctx context.Context, id domain.Identity, paymentID string) error
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	if err := registerValidations(); err != nil {
		return nil, err
	}

	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.POST("/auth/signup", signupHandler(logger, deps.UserSvc))
	router.POST("/auth/login", loginHandler(logger, deps.UserSvc))
	router.POST("/auth/refresh", refreshHandler(logger, deps.UserSvc))

	router.GET("/restaurants", listRestaurantsHandler(logger, deps.CatalogSvc))
	router.GET("/restaurants/:restaurantId", getRestaurantHandler(logger, deps.CatalogSvc))
	router.GET("/restaurants/:restaurantId/menu-items", listMenuItemsHandler(logger, deps.CatalogSvc))
	router.GET("/menu-items", listMenuItemsHandler(logger, deps.CatalogSvc))
	router.GET("/menu-items/:menuItemId", getMenuItemHandler(logger, deps.CatalogSvc))

	authed := router.Group("/", authRequired(deps.UserSvc))

	authed.POST("/auth/logout", logoutHandler(logger, deps.UserSvc))

	authed.GET("/users/me", meHandler)
	authed.GET("/users/:userId", getUserHandler(logger, deps.UserSvc))
	authed.PUT("/users/:userId", updateUserHandler(logger, deps.UserSvc))
	authed.DELETE("/users/:userId", deleteUserHandler(logger, deps.UserSvc))

	authed.POST("/restaurants", createRestaurantHandler(logger, deps.CatalogSvc))
	authed.PUT("/restaurants/:restaurantId", updateRestaurantHandler(logger, deps.CatalogSvc))
	authed.DELETE("/restaurants/:restaurantId", deleteRestaurantHandler(logger, deps.CatalogSvc))
	authed.POST("/menu-items", createMenuItemHandler(logger, deps.CatalogSvc))
	authed.PUT("/menu-items/:menuItemId", updateMenuItemHandler(logger, deps.CatalogSvc))
	authed.DELETE("/menu-items/:menuItemId", deleteMenuItemHandler(logger, deps.CatalogSvc))

	authed.GET("/cart", getCartHandler(logger, deps.CartSvc))
	authed.DELETE("/cart", clearCartHandler(logger, deps.CartSvc))
	authed.POST("/cart/items", addCartItemHandler(logger, deps.CartSvc))
	authed.PUT("/cart/items/:menuItemId", updateCartItemHandler(logger, deps.CartSvc))
	authed.DELETE("/cart/items/:menuItemId", removeCartItemHandler(logger, deps.CartSvc))

	authed.POST("/orders", createOrderHandler(logger, deps.OrderSvc, deps.PaymentSvc))
	authed.GET("/orders", listOrdersHandler(logger, deps.OrderSvc))
	authed.GET("/orders/:orderId", getOrderHandler(logger, deps.OrderSvc))
	authed.PUT("/orders/:orderId/status", updateOrderStatusHandler(logger, deps.OrderSvc))
	authed.POST("/orders/:orderId/cancel", cancelOrderHandler(logger, deps.OrderSvc))
	authed.GET("/orders/:orderId/payments", listOrderPaymentsHandler(logger, deps.PaymentSvc))

	authed.GET("/payments/:paymentId", getPaymentHandler(logger, deps.PaymentSvc))
	authed.PUT("/payments/:paymentId/status", updatePaymentStatusHandler(logger, deps.PaymentSvc))
	authed.PUT("/payments/:paymentId/method", updatePaymentMethodHandler(logger, deps.PaymentSvc))
	authed.DELETE("/payments/:paymentId", deletePaymentHandler(logger, deps.PaymentSvc))

	return router, nil
}

// registerValidations adds the enum checks used in binding tags.
func registerValidations() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	if err := v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return domain.OrderStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	if err := v.RegisterValidation("paymentstatus", func(fl validator.FieldLevel) bool {
		return domain.PaymentStatus(fl.Field().String()).Valid()
	}); err != nil {
		return err
	}
	return v.RegisterValidation("paymentmethod", func(fl validator.FieldLevel) bool {
		return domain.PaymentMethod(fl.Field().String()).Valid()
	})
}
