package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/wanderlust-tours/wanderlust/internal/catalog"
	"github.com/wanderlust-tours/wanderlust/internal/kv"
	"github.com/wanderlust-tours/wanderlust/internal/wishlist"
)

// WishlistItemRequest names the catalog entry to like
type WishlistItemRequest struct {
	ID uint `json:"id" binding:"required"`
}

// WishlistResponse is the visitor's full wishlist
type WishlistResponse struct {
	Tours        []wishlist.Tour        `json:"tours"`
	Destinations []wishlist.Destination `json:"destinations"`
}

// WishlistMutationResponse carries the notification shown after a like or
// unlike
type WishlistMutationResponse struct {
	Message string `json:"message"`
	Changed bool   `json:"changed"`
	Item    any    `json:"item,omitempty"`
}

// loadWishlist returns the calling visitor's open wishlist, reading storage
// only when the visitor has none. The in-memory store stays authoritative
// after failed writes. Callers hold wishlistMu while using it.
func (s *Server) loadWishlist(c *gin.Context) *wishlist.Store {
	visitorID := GetVisitorID(c)
	if v, ok := s.openWishlists.Get(visitorID); ok {
		store := v.(*wishlist.Store)
		s.openWishlists.SetDefault(visitorID, store)
		return store
	}

	storage := kv.Scoped(s.wishlists, kv.VisitorNamespace(visitorID))
	store := wishlist.Load(c.Request.Context(), storage, s.logger,
		wishlist.WithObserver(s.metrics.ObserveWishlist))
	s.openWishlists.SetDefault(visitorID, store)
	return store
}

// @Summary Get wishlist
// @Tags wishlist
// @Produce json
// @Success 200 {object} WishlistResponse
// @Router /api/wishlist [get]
func (s *Server) getWishlist(c *gin.Context) {
	s.wishlistMu.Lock()
	store := s.loadWishlist(c)
	s.wishlistMu.Unlock()

	c.JSON(http.StatusOK, WishlistResponse{
		Tours:        store.Tours(),
		Destinations: store.Destinations(),
	})
}

// @Summary Add tour to wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Param body body WishlistItemRequest true "Tour to add"
// @Success 201 {object} WishlistMutationResponse
// @Success 200 {object} WishlistMutationResponse "Already present"
// @Failure 404 {object} map[string]interface{}
// @Router /api/wishlist/tours [post]
func (s *Server) addTourToWishlist(c *gin.Context) {
	var req WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	tour, err := s.catalog.GetTour(c.Request.Context(), req.ID)
	if err != nil {
		s.handleServiceError(c, err, "Failed to get tour")
		return
	}
	snap := catalog.TourSnapshot(tour)

	s.wishlistMu.Lock()
	added := s.loadWishlist(c).AddTour(c.Request.Context(), snap)
	s.wishlistMu.Unlock()

	if !added {
		c.JSON(http.StatusOK, WishlistMutationResponse{
			Message: snap.Title + " is already in your wishlist",
			Item:    snap,
		})
		return
	}
	c.JSON(http.StatusCreated, WishlistMutationResponse{
		Message: snap.Title + " added to wishlist",
		Changed: true,
		Item:    snap,
	})
}

// @Summary Check tour in wishlist
// @Tags wishlist
// @Param id path int true "Tour ID"
// @Success 200 {object} map[string]bool
// @Router /api/wishlist/tours/{id} [get]
func (s *Server) isTourInWishlist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.wishlistMu.Lock()
	present := s.loadWishlist(c).IsTourPresent(int(id))
	s.wishlistMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"present": present})
}

// @Summary Remove tour from wishlist
// @Tags wishlist
// @Param id path int true "Tour ID"
// @Success 200 {object} WishlistMutationResponse
// @Router /api/wishlist/tours/{id} [delete]
func (s *Server) removeTourFromWishlist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.wishlistMu.Lock()
	removed, found := s.loadWishlist(c).RemoveTour(c.Request.Context(), int(id))
	s.wishlistMu.Unlock()

	if !found {
		c.JSON(http.StatusOK, WishlistMutationResponse{Message: "Tour is not in your wishlist"})
		return
	}
	c.JSON(http.StatusOK, WishlistMutationResponse{
		Message: removed.Title + " removed from wishlist",
		Changed: true,
		Item:    removed,
	})
}

// @Summary Add destination to wishlist
// @Tags wishlist
// @Accept json
// @Produce json
// @Param body body WishlistItemRequest true "Destination to add"
// @Success 201 {object} WishlistMutationResponse
// @Success 200 {object} WishlistMutationResponse "Already present"
// @Failure 404 {object} map[string]interface{}
// @Router /api/wishlist/destinations [post]
func (s *Server) addDestinationToWishlist(c *gin.Context) {
	var req WishlistItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	destination, err := s.catalog.GetDestination(c.Request.Context(), req.ID)
	if err != nil {
		s.handleServiceError(c, err, "Failed to get destination")
		return
	}
	snap := catalog.DestinationSnapshot(destination)

	s.wishlistMu.Lock()
	added := s.loadWishlist(c).AddDestination(c.Request.Context(), snap)
	s.wishlistMu.Unlock()

	if !added {
		c.JSON(http.StatusOK, WishlistMutationResponse{
			Message: snap.Name + " is already in your wishlist",
			Item:    snap,
		})
		return
	}
	c.JSON(http.StatusCreated, WishlistMutationResponse{
		Message: snap.Name + " added to wishlist",
		Changed: true,
		Item:    snap,
	})
}

// @Summary Check destination in wishlist
// @Tags wishlist
// @Produce json
// @Param id path int true "Destination ID"
// @Success 200 {object} map[string]bool
// @Failure 400 {object} map[string]interface{}
// @Router /api/wishlist/destinations/{id} [get]
func (s *Server) isDestinationInWishlist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.wishlistMu.Lock()
	present := s.loadWishlist(c).IsDestinationPresent(int(id))
	s.wishlistMu.Unlock()

	c.JSON(http.StatusOK, gin.H{"present": present})
}

// @Summary Remove destination from wishlist
// @Tags wishlist
// @Produce json
// @Param id path int true "Destination ID"
// @Success 200 {object} WishlistMutationResponse
// @Failure 400 {object} map[string]interface{}
// @Router /api/wishlist/destinations/{id} [delete]
func (s *Server) removeDestinationFromWishlist(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.wishlistMu.Lock()
	removed, found := s.loadWishlist(c).RemoveDestination(c.Request.Context(), int(id))
	s.wishlistMu.Unlock()

	if !found {
		c.JSON(http.StatusOK, WishlistMutationResponse{Message: "Destination is not in your wishlist"})
		return
	}
	c.JSON(http.StatusOK, WishlistMutationResponse{
		Message: removed.Name + " removed from wishlist",
		Changed: true,
		Item:    removed,
	})
}
