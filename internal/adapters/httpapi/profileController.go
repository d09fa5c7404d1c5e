package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"reelprofile/internal/adapters/httpapi/middleware"
	"reelprofile/internal/core/errs"
	"reelprofile/internal/core/profileview"
	profileviewapp "reelprofile/internal/core/profileview/service"
	contentPort "reelprofile/internal/ports/content"
	profilePort "reelprofile/internal/ports/profile"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ProfileController struct {
	views   ProfileViewUseCase
	timeout time.Duration
	logger  *zap.Logger
}

func NewProfileController(views ProfileViewUseCase, timeout time.Duration, logger *zap.Logger) *ProfileController {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileController{views: views, timeout: timeout, logger: logger}
}

type followResponse struct {
	profileview.FollowState
	Relation profileview.Relation `json:"relation"`
}

type viewResponse struct {
	Handle    string                  `json:"handle"`
	State     profileview.State       `json:"state"`
	Outcome   profileview.Outcome     `json:"outcome"`
	Profile   *profilePort.ProfileDTO `json:"profile,omitempty"`
	IsSelf    bool                    `json:"isSelf"`
	Follow    followResponse          `json:"follow"`
	ActiveTab profileview.Tab         `json:"activeTab"`
	Tabs      []profileview.Tab       `json:"tabs"`
	Items     []*contentPort.ItemDTO  `json:"items"`
	Sections  map[string]string       `json:"sections"`
}

func toViewResponse(vm profileview.ViewModel) viewResponse {
	tabs := vm.Tabs
	if tabs == nil {
		tabs = []profileview.Tab{}
	}
	return viewResponse{
		Handle:    vm.Handle,
		State:     vm.State,
		Outcome:   vm.Outcome,
		Profile:   profilePort.ToDTO(vm.Identity),
		IsSelf:    vm.IsSelf(),
		Follow:    followResponse{FollowState: vm.Follow, Relation: vm.Follow.Relation()},
		ActiveTab: vm.ActiveTab,
		Tabs:      tabs,
		Items:     contentPort.ToDTOs(vm.Items),
		Sections: map[string]string{
			"identity":     string(vm.IdentityStatus),
			"relationship": string(vm.RelationshipStatus),
			"content":      string(vm.ContentStatus),
		},
	}
}

// statusFor نگاشت خطاهای دامنه به کد HTTP
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, errs.ErrTabUnavailable):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrInvalidEdge), errors.Is(err, errs.ErrSelfAction):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrNotReady), errors.Is(err, profileviewapp.ErrSuperseded):
		return http.StatusConflict
	case errors.Is(err, errs.ErrStoreUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (ctl *ProfileController) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		ctl.logger.Error("❌ Profile request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func (ctl *ProfileController) open(c *gin.Context) (context.Context, context.CancelFunc, *profileviewapp.Assembler, *profileviewapp.FollowController) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.timeout)
	view, follow := ctl.views.New(middleware.SessionFrom(c))
	return ctx, cancel, view, follow
}

func (ctl *ProfileController) GetProfile(c *gin.Context) {
	ctx, cancel, view, _ := ctl.open(c)
	defer cancel()

	vm, err := view.Visit(ctx, c.Param("handle"))
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusNotFound, toViewResponse(vm))
			return
		}
		ctl.fail(c, err)
		return
	}

	if tab := profileview.Tab(c.Query("tab")); tab != "" && tab != vm.ActiveTab {
		if vm, err = view.SwitchTab(ctx, tab); err != nil {
			ctl.fail(c, err)
			return
		}
	}

	c.JSON(http.StatusOK, toViewResponse(vm))
}

func (ctl *ProfileController) ToggleFollow(c *gin.Context) {
	if _, ok := middleware.SessionFrom(c).ViewerID(); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	ctx, cancel, view, follow := ctl.open(c)
	defer cancel()

	_, err := view.Visit(ctx, c.Param("handle"))
	if err != nil {
		ctl.fail(c, err)
		return
	}

	state, err := follow.Toggle(ctx)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, followResponse{FollowState: state, Relation: state.Relation()})
}

func (ctl *ProfileController) StartConversation(c *gin.Context) {
	if _, ok := middleware.SessionFrom(c).ViewerID(); !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	ctx, cancel, view, _ := ctl.open(c)
	defer cancel()

	_, err := view.Visit(ctx, c.Param("handle"))
	if err != nil {
		ctl.fail(c, err)
		return
	}

	id, err := view.StartChat(ctx)
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"conversationId": id})
}

func (ctl *ProfileController) OpenMedia(c *gin.Context) {
	ctx, cancel, view, _ := ctl.open(c)
	defer cancel()

	vm, err := view.Visit(ctx, c.Param("handle"))
	if err != nil {
		ctl.fail(c, err)
		return
	}

	if tab := profileview.Tab(c.Query("tab")); tab != "" && tab != vm.ActiveTab {
		if _, err := view.SwitchTab(ctx, tab); err != nil {
			ctl.fail(c, err)
			return
		}
	}

	sel, err := view.OpenMedia(c.Param("itemID"))
	if err != nil {
		ctl.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"items":      contentPort.ToDTOs(sel.Items),
		"startIndex": sel.StartIndex,
	})
}

func (ctl *ProfileController) Logout(c *gin.Context) {
	sess := middleware.SessionFrom(c)
	viewerID, ok := sess.ViewerID()
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "login required"})
		return
	}

	view, _ := ctl.views.New(sess)
	vm := view.Logout()
	ctl.logger.Info("👋 Session ended", zap.String("viewer", viewerID))
	c.JSON(http.StatusOK, gin.H{"outcome": vm.Outcome})
}
