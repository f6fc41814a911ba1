package router

import (
	"log/slog"
	"net/http"

	"github.com/brightfeed/brightfeed/internal/auth"
	"github.com/brightfeed/brightfeed/internal/domain"
	"github.com/brightfeed/brightfeed/internal/dto"
	"github.com/brightfeed/brightfeed/internal/reconcile"
	"github.com/brightfeed/brightfeed/internal/storage"
	"github.com/labstack/echo/v4"
)

type FeedRouter struct {
	e          *echo.Echo
	reconciler *reconcile.Reconciler
	articles   storage.ArticleStore
	engagement storage.EngagementStore
}

func NewFeedRouter(e *echo.Echo, reconciler *reconcile.Reconciler, articles storage.ArticleStore, engagement storage.EngagementStore) *FeedRouter {
	return &FeedRouter{
		e:          e,
		reconciler: reconciler,
		articles:   articles,
		engagement: engagement,
	}
}

func (r *FeedRouter) Bind() {
	r.e.GET("/feed", r.feedHandler)
	r.e.POST("/feed/refresh", r.refreshHandler)
	r.e.POST("/articles/like", r.likeHandler)
	r.e.POST("/articles/dislike", r.dislikeHandler)
	r.e.POST("/articles/favorite", r.favoriteHandler)
	r.e.GET("/articles/engagement", r.engagementHandler)
	r.e.POST("/articles/image", r.imageHandler)
	r.e.POST("/articles/audio", r.audioHandler)
}

// @Summary Read a category feed from the cache
// @Param category query string false "category label"
// @Success 200 {object} dto.FeedResponse
// @Router /feed [get]
func (r *FeedRouter) feedHandler(c echo.Context) error {
	articles, err := r.reconciler.Load(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.feedResponse(c, articles))
}

// @Summary Refresh a category via the generator and persist the result
// @Param category query string false "category label"
// @Success 200 {object} dto.FeedResponse
// @Router /feed/refresh [post]
func (r *FeedRouter) refreshHandler(c echo.Context) error {
	articles, err := r.reconciler.Refresh(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, r.feedResponse(c, articles))
}

func (r *FeedRouter) feedResponse(c echo.Context, articles []domain.Article) dto.FeedResponse {
	resp := dto.FeedResponse{
		Articles: articles,
		Notice:   r.reconciler.State().TakeNotice(),
	}

	if session := auth.SessionFrom(c); session != nil {
		ids, err := r.engagement.FavoriteIDs(c.Request().Context(), session.UserID)
		if err != nil {
			slog.Warn("Failed to load favorite ids for feed", "user", session.UserID, "error", err)
		} else {
			r.reconciler.State().SetFavoriteIDs(ids)
			resp.FavoriteIDs = make([]string, len(ids))
			for i, id := range ids {
				resp.FavoriteIDs[i] = id.String()
			}
		}
	}

	return resp
}

// @Summary Toggle a like on an article
// @Param article body dto.ArticleRequest true "article, possibly transient"
// @Success 200 {object} reconcile.Snapshot
// @Router /articles/like [post]
func (r *FeedRouter) likeHandler(c echo.Context) error {
	return r.gestureHandler(c, r.reconciler.VoteLike)
}

// @Summary Toggle a dislike on an article
// @Param article body dto.ArticleRequest true "article, possibly transient"
// @Success 200 {object} reconcile.Snapshot
// @Router /articles/dislike [post]
func (r *FeedRouter) dislikeHandler(c echo.Context) error {
	return r.gestureHandler(c, r.reconciler.VoteDislike)
}

// @Summary Toggle an article in the user's favorites
// @Param article body dto.ArticleRequest true "article, possibly transient"
// @Success 200 {object} reconcile.Snapshot
// @Router /articles/favorite [post]
func (r *FeedRouter) favoriteHandler(c echo.Context) error {
	return r.gestureHandler(c, r.reconciler.ToggleFavorite)
}

func (r *FeedRouter) gestureHandler(c echo.Context, invoke reconcile.Gesture) error {
	var req dto.ArticleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed article payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	snap, err := invoke(c.Request().Context(), auth.SessionFrom(c), req.ToDomain())
	if err != nil {
		return err
	}
	if snap == nil {
		// Identity resolution or the toggle failed; the gesture aborted
		// without changing state.
		return c.NoContent(http.StatusNoContent)
	}
	return c.JSON(http.StatusOK, snap)
}

// @Summary Engagement state for one article detail view
// @Param id query string false "article id, possibly non-durable"
// @Param url query string true "article url"
// @Success 200 {object} reconcile.Snapshot
// @Router /articles/engagement [get]
func (r *FeedRouter) engagementHandler(c echo.Context) error {
	snap, err := r.reconciler.ArticleEngagement(
		c.Request().Context(),
		auth.SessionFrom(c),
		c.QueryParam("id"),
		c.QueryParam("url"),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, snap)
}

// imageHandler and audioHandler are best-effort enhancement writes: the
// response is accepted regardless of whether the patch landed.
func (r *FeedRouter) imageHandler(c echo.Context) error {
	var req dto.ImagePatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed image patch")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := r.articles.UpdateImage(c.Request().Context(), req.URL, req.ImageURL); err != nil {
		slog.Debug("Image patch dropped", "url", req.URL, "error", err)
	}
	return c.NoContent(http.StatusAccepted)
}

func (r *FeedRouter) audioHandler(c echo.Context) error {
	var req dto.AudioPatchRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed audio patch")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	if err := r.articles.UpdateAudio(c.Request().Context(), req.URL, req.Payload); err != nil {
		slog.Debug("Audio patch dropped", "url", req.URL, "error", err)
	}
	return c.NoContent(http.StatusAccepted)
}
