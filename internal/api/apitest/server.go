// Package apitest runs an in-memory storefront backend for tests. It speaks
// just enough of the real API for the client packages to exercise their
// round-trip semantics: bearer auth, the cart merge rule, order creation
// from the cart, and the user/address routes.
package apitest

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/allegrolike/storefront/internal/models"
)

// SigningKey signs the fixture tokens. The client never verifies signatures,
// only the fake backend does.
var SigningKey = []byte("apitest-secret")

// SignToken issues an HS256 token in the backend's claim shape: username in
// sub, roles as an array, unix expiry.
func SignToken(username, role string, expires time.Time) string {
	claims := jwt.MapClaims{
		"sub":  username,
		"role": []string{role},
		"exp":  expires.Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(SigningKey)
	if err != nil {
		panic(err)
	}
	return signed
}

type Server struct {
	*httptest.Server

	mu sync.Mutex

	// Account accepted by login; Token is what a successful login returns.
	Username string
	Password string
	Token    string
	User     models.User

	Cart      models.Cart
	Orders    []models.Order
	Addresses []models.Address
	Products  []models.Product

	nextID uint
	calls  map[string]int

	// failNext forces the next request to answer with this status/body.
	failStatus int
	failBody   string
	failJSON   bool
}

func New() *Server {
	s := &Server{
		Username: "alice",
		Password: "wonderland",
		nextID:   100,
		calls:    map[string]int{},
	}
	s.Token = SignToken(s.Username, models.RoleUser, time.Now().Add(time.Hour))
	s.User = models.User{ID: 1, Username: s.Username, Email: "alice@example.com", Role: models.RoleUser}

	e := echo.New()
	api := e.Group("/api", s.count, s.maybeFail)

	api.POST("/auth/login", s.login)
	api.POST("/auth/registerUser", s.register)
	api.GET("/auth/checkToken", s.checkToken, s.requireAuth)

	api.GET("/cart", s.getCart, s.requireAuth)
	api.POST("/cart/items", s.addCartItem, s.requireAuth)
	api.PATCH("/cart/items/:id", s.updateCartItem, s.requireAuth)
	api.DELETE("/cart/items/:id", s.removeCartItem, s.requireAuth)
	api.POST("/cart/clear", s.clearCart, s.requireAuth)

	api.GET("/orders", s.allOrders, s.requireAuth)
	api.GET("/orders/users/:id", s.userOrders, s.requireAuth)
	api.POST("/orders/users/:id", s.createOrder, s.requireAuth)

	api.PATCH("/users/:id", s.updateUser, s.requireAuth)
	api.POST("/users/:id/address", s.createAddress, s.requireAuth)
	api.PUT("/users/:id/address/:addressId", s.setAddress, s.requireAuth)
	api.GET("/addresses/:query", s.searchAddresses, s.requireAuth)

	api.GET("/products", s.listProducts)
	api.GET("/products/:id", s.getProduct)

	s.Server = httptest.NewServer(e)
	return s
}

// Calls reports how many requests hit the given "METHOD /path" route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// FailNext makes the next request answer with status and a plain-text body.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failBody = body
	s.failJSON = false
}

// FailNextJSON is FailNext with a {"message": body} JSON body.
func (s *Server) FailNextJSON(status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failBody = message
	s.failJSON = true
}

func (s *Server) count(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		s.calls[c.Request().Method+" "+c.Path()]++
		s.mu.Unlock()
		return next(c)
	}
}

func (s *Server) maybeFail(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		status, body, asJSON := s.failStatus, s.failBody, s.failJSON
		s.failStatus = 0
		s.mu.Unlock()
		if status == 0 {
			return next(c)
		}
		if asJSON {
			return c.JSON(status, map[string]string{"message": body})
		}
		return c.String(status, body)
	}
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		s.mu.Lock()
		want := "Bearer " + s.Token
		s.mu.Unlock()
		if c.Request().Header.Get("Authorization") != want {
			return c.JSON(http.StatusUnauthorized, map[string]string{"message": "invalid or missing token"})
		}
		return next(c)
	}
}

func (s *Server) login(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Username != s.Username || req.Password != s.Password {
		return c.JSON(http.StatusUnauthorized, map[string]string{"message": "Invalid username or password"})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"token":    s.Token,
		"type":     "Bearer",
		"username": s.Username,
	})
}

func (s *Server) register(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if req.Username == s.Username {
		return c.JSON(http.StatusConflict, map[string]string{"message": "Username is already taken"})
	}
	s.Username = req.Username
	s.Password = req.Password
	s.Token = SignToken(req.Username, models.RoleUser, time.Now().Add(time.Hour))
	s.User = models.User{ID: s.nextIDLocked(), Username: req.Username, Email: req.Email, Role: models.RoleUser}
	return c.JSON(http.StatusOK, map[string]string{
		"token":    s.Token,
		"type":     "Bearer",
		"username": req.Username,
	})
}

func (s *Server) checkToken(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.User)
}

func (s *Server) getCart(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.Cart)
}

// addCartItem applies the merge rule: a product already in the cart gets its
// quantity incremented instead of a second line.
func (s *Server) addCartItem(c echo.Context) error {
	productID, err1 := strconv.ParseUint(c.QueryParam("productId"), 10, 32)
	quantity, err2 := strconv.ParseUint(c.QueryParam("quantity"), 10, 32)
	if err1 != nil || err2 != nil || quantity == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid productId or quantity"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Cart.Items {
		if s.Cart.Items[i].Product.ID == uint(productID) {
			s.Cart.Items[i].Quantity += uint(quantity)
			return c.JSON(http.StatusOK, s.Cart)
		}
	}
	product := s.productLocked(uint(productID))
	if product == nil {
		return c.JSON(http.StatusNotFound, map[string]string{"message": "product not found"})
	}
	s.Cart.Items = append(s.Cart.Items, models.CartItem{
		ID:       s.nextIDLocked(),
		Product:  *product,
		Quantity: uint(quantity),
	})
	return c.JSON(http.StatusOK, s.Cart)
}

func (s *Server) updateCartItem(c echo.Context) error {
	itemID, err1 := strconv.ParseUint(c.Param("id"), 10, 32)
	quantity, err2 := strconv.ParseUint(c.QueryParam("quantity"), 10, 32)
	if err1 != nil || err2 != nil || quantity == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid quantity"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Cart.Items {
		if s.Cart.Items[i].ID == uint(itemID) {
			s.Cart.Items[i].Quantity = uint(quantity)
			return c.JSON(http.StatusOK, s.Cart)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "cart item not found"})
}

func (s *Server) removeCartItem(c echo.Context) error {
	itemID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid id"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Cart.Items {
		if s.Cart.Items[i].ID == uint(itemID) {
			s.Cart.Items = append(s.Cart.Items[:i], s.Cart.Items[i+1:]...)
			return c.JSON(http.StatusOK, s.Cart)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "cart item not found"})
}

func (s *Server) clearCart(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Cart.Items = nil
	return c.JSON(http.StatusOK, s.Cart)
}

func (s *Server) allOrders(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.Orders)
}

func (s *Server) userOrders(c echo.Context) error {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []models.Order{}
	for _, o := range s.Orders {
		if o.UserID == uint(userID) {
			out = append(out, o)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// createOrder builds an order from the cart, clears the cart server-side and
// snapshots the shipping address, mirroring the real backend's side effects.
func (s *Server) createOrder(c echo.Context) error {
	userID, _ := strconv.ParseUint(c.Param("id"), 10, 32)

	var shipping *models.Address
	var body models.Address
	if err := c.Bind(&body); err == nil && body.City != "" {
		shipping = &body
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if shipping == nil {
		if s.User.Address == nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"message": "no shipping address"})
		}
		shipping = s.User.Address
	}
	if len(s.Cart.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "cart is empty"})
	}

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(s.Cart.Items))
	for _, it := range s.Cart.Items {
		total = total.Add(it.Product.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
		items = append(items, models.OrderItem{ID: s.nextIDLocked(), Product: it.Product, Quantity: it.Quantity})
	}
	order := models.Order{
		ID:              s.nextIDLocked(),
		CreatedAt:       time.Now().UTC(),
		UserID:          uint(userID),
		Status:          "NEW",
		TotalPrice:      total,
		ShippingAddress: shipping,
		Items:           items,
	}
	s.Orders = append(s.Orders, order)
	s.Cart.Items = nil
	return c.JSON(http.StatusCreated, order)
}

func (s *Server) updateUser(c echo.Context) error {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.User.Username = req.Username
	s.User.Email = req.Email
	return c.JSON(http.StatusOK, s.User)
}

func (s *Server) createAddress(c echo.Context) error {
	var req models.Address
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"message": "invalid body"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	req.ID = s.nextIDLocked()
	s.Addresses = append(s.Addresses, req)
	s.User.Address = &req
	return c.JSON(http.StatusOK, s.User)
}

func (s *Server) setAddress(c echo.Context) error {
	addressID, _ := strconv.ParseUint(c.Param("addressId"), 10, 32)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.Addresses {
		if s.Addresses[i].ID == uint(addressID) {
			s.User.Address = &s.Addresses[i]
			return c.JSON(http.StatusOK, s.User)
		}
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "address not found"})
}

func (s *Server) searchAddresses(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.Addresses)
}

func (s *Server) listProducts(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.JSON(http.StatusOK, s.Products)
}

func (s *Server) getProduct(c echo.Context) error {
	id, _ := strconv.ParseUint(c.Param("id"), 10, 32)
	s.mu.Lock()
	defer s.mu.Unlock()
	if p := s.productLocked(uint(id)); p != nil {
		return c.JSON(http.StatusOK, p)
	}
	return c.JSON(http.StatusNotFound, map[string]string{"message": "product not found"})
}

func (s *Server) productLocked(id uint) *models.Product {
	for i := range s.Products {
		if s.Products[i].ID == id {
			return &s.Products[i]
		}
	}
	return nil
}

func (s *Server) nextIDLocked() uint {
	s.nextID++
	return s.nextID
}
