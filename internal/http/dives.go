package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/tmakela/scubalog/internal/entities"
)

// DiveStore is the persistence surface the dive controllers need.
type DiveStore interface {
	ListAll() ([]entities.Dive, error)
	GetByID(id uint) (*entities.Dive, error)
	Insert(dive *entities.Dive) error
	Count() (int64, error)
}

type DivesController struct {
	store DiveStore
}

func NewDivesController(store DiveStore) *DivesController {
	return &DivesController{store: store}
}

type DiveListResponse struct {
	Dives []entities.Dive `json:"dives"`
	Total int64           `json:"total"`
}

func (ctrl *DivesController) GetAllDives(c *gin.Context) {
	dives, err := ctrl.store.ListAll()
	if err != nil {
		respondInternalError(c, err, "list dives")
		return
	}
	total, err := ctrl.store.Count()
	if err != nil {
		respondInternalError(c, err, "count dives")
		return
	}
	c.JSON(http.StatusOK, DiveListResponse{Dives: dives, Total: total})
}

func (ctrl *DivesController) GetDiveByID(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid dive id")
		return
	}

	dive, err := ctrl.store.GetByID(uint(id))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "dive")
			return
		}
		respondInternalError(c, err, "get dive")
		return
	}
	c.JSON(http.StatusOK, dive)
}

type CreateDiveResponse struct {
	Dive            *entities.Dive `json:"dive"`
	PressureWarning bool           `json:"pressure_warning,omitempty"`
}

func (ctrl *DivesController) CreateDive(c *gin.Context) {
	var dive entities.Dive
	if err := c.ShouldBindJSON(&dive); err != nil {
		respondBadRequest(c, "invalid dive payload: "+err.Error())
		return
	}
	if dive.Title == "" {
		respondBadRequest(c, "title is required")
		return
	}

	if err := ctrl.store.Insert(&dive); err != nil {
		respondInternalError(c, err, "create dive")
		return
	}

	// End pressure above start pressure is flagged, never corrected.
	c.JSON(http.StatusCreated, CreateDiveResponse{
		Dive:            &dive,
		PressureWarning: dive.PressureWarning(),
	})
}
