package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	apierr "github.com/JarcauCristian/notebook-manager/pkg/api/types/errors"
	apinotebooks "github.com/JarcauCristian/notebook-manager/pkg/api/types/notebooks"
	"github.com/JarcauCristian/notebook-manager/pkg/domain"
	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/cache"
	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/db"
	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/k8s"
)

// HealthHandler answers liveness probes. No auth.
func HealthHandler() echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "Server Works!")
	}
}

// CreateNotebookHandler provisions a new notebook instance: cluster
// resources first, then the durable record.
//
// When the record write fails after the cluster succeeded, the cluster
// resources are left behind and the error is surfaced; there is no retry.
func CreateNotebookHandler(
	orch k8s.Interface,
	dbNotebook db.Interface,
	listCache *cache.ListCache,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()

		spec := apinotebooks.NotebookSpec{}
		if err := c.Bind(&spec); err != nil {
			return apierr.BadRequest("notebook spec could not be parsed", err)
		}
		if spec.UserId == "" {
			return apierr.BadRequest(`"user_id" is required`, nil)
		}
		variant, err := domain.AsNotebookVariant(spec.NotebookType)
		if err != nil {
			return apierr.BadRequest(
				`"notebook_type" should be one of "sklearn", "pytorch" or "classification"`,
				err,
			)
		}

		spawned, err := orch.Spawn(ctx, k8s.CreateParams{
			UserId:      spec.UserId,
			Description: spec.Description,
			DatasetURL:  spec.DatasetURL,
			Variant:     variant,
		})
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedVariant) {
				return apierr.BadRequest(
					`"notebook_type" should be one of "sklearn", "pytorch" or "classification"`,
					err,
				)
			}
			if errors.Is(err, k8s.ErrPortRangeExhausted) {
				return apierr.ServiceUnavailable(
					"no port is left for a new notebook. Retry after deleting one",
					err,
				)
			}
			return apierr.InternalServerError(err)
		}

		now := time.Now()
		if err := dbNotebook.Register(ctx, &domain.Notebook{
			NotebookId:   spawned.NotebookId,
			UserId:       spec.UserId,
			Description:  spec.Description,
			DatasetURL:   spec.DatasetURL,
			Port:         spawned.Port,
			Variant:      variant,
			CreatedAt:    now,
			LastAccessed: now,
		}); err != nil {
			c.Logger().Errorf(
				"notebook %s is provisioned but not recorded: %+v",
				spawned.NotebookId, err,
			)
			return apierr.InternalServerError(err)
		}

		if listCache != nil {
			if err := listCache.Invalidate(ctx, spec.UserId); err != nil {
				c.Logger().Warnf("listing cache invalidation failed: %+v", err)
			}
		}

		return c.JSON(http.StatusCreated, apinotebooks.Created{
			NotebookId: spawned.NotebookId,
			Port:       spawned.Port,
			Token:      spawned.Token,
		})
	}
}

// ListNotebooksHandler reads back every notebook of a user, decorated
// with cluster-reported creation times and the retention horizon.
//
// Listings are cached per user; cache failures only cost a recompute.
func ListNotebooksHandler(
	orch k8s.Interface,
	dbNotebook db.Interface,
	listCache *cache.ListCache,
	retention time.Duration,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()

		userId := c.QueryParam("user_id")
		if userId == "" {
			return apierr.BadRequest(`"user_id" is required`, nil)
		}

		if listCache != nil {
			if snapshot, ok := listCache.Lookup(ctx, userId); ok {
				return c.JSONBlob(http.StatusOK, []byte(snapshot))
			}
		}

		records, err := dbNotebook.ListForUser(ctx, userId)
		if err != nil {
			return apierr.InternalServerError(err)
		}

		resp := make([]apinotebooks.Detail, 0, len(records))
		for _, record := range records {
			createdAt, err := orch.DeploymentCreatedAt(ctx, record.NotebookId)
			if err != nil {
				if !errors.Is(err, domain.ErrMissing) {
					return apierr.InternalServerError(err)
				}
				// recorded, but its workload is gone. Show the record
				// as-is rather than hiding it.
				c.Logger().Warnf(
					"notebook %s has a record but no deployment", record.NotebookId,
				)
				createdAt = record.CreatedAt
			}
			resp = append(resp, apinotebooks.Detail{
				NotebookId:     record.NotebookId,
				CreationTime:   createdAt.Format(apinotebooks.TimestampFormat),
				ExpirationTime: createdAt.Add(retention).Format(apinotebooks.TimestampFormat),
				LastAccessed:   record.LastAccessed.Format(apinotebooks.TimestampFormat),
				Description:    record.Description,
				Port:           record.Port,
				NotebookType:   record.Variant.String(),
			})
		}

		if listCache != nil {
			if snapshot, err := json.Marshal(resp); err == nil {
				if err := listCache.Save(ctx, userId, string(snapshot)); err != nil {
					c.Logger().Warnf("listing cache write failed: %+v", err)
				}
			}
		}

		return c.JSON(http.StatusOK, resp)
	}
}

// TouchNotebookHandler updates last-accessed of a notebook to now.
func TouchNotebookHandler(
	dbNotebook db.Interface,
	listCache *cache.ListCache,
	paramNotebookId string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()
		notebookId := c.Param(paramNotebookId)

		record, err := dbNotebook.Get(ctx, notebookId)
		if err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		if err := dbNotebook.Touch(ctx, notebookId); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		if listCache != nil {
			if err := listCache.Invalidate(ctx, record.UserId); err != nil {
				c.Logger().Warnf("listing cache invalidation failed: %+v", err)
			}
		}

		return c.JSON(http.StatusOK, apinotebooks.Accessed{NotebookId: notebookId})
	}
}

// DeleteNotebookHandler tears a notebook down: record first, then the
// cluster resources.
//
// An unknown id fails fast with no cluster calls. Once the record is
// gone, cluster cleanup is best-effort; whatever could not be removed is
// reported as a warning, never as a failure.
func DeleteNotebookHandler(
	orch k8s.Interface,
	dbNotebook db.Interface,
	listCache *cache.ListCache,
	paramNotebookId string,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()
		notebookId := c.Param(paramNotebookId)

		record, err := dbNotebook.Get(ctx, notebookId)
		if err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		if err := dbNotebook.Delete(ctx, notebookId); err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		warnings, err := orch.Teardown(ctx, notebookId)
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		for _, w := range warnings {
			c.Logger().Warnf("teardown of notebook %s: %s", notebookId, w)
		}

		if listCache != nil {
			if err := listCache.Invalidate(ctx, record.UserId); err != nil {
				c.Logger().Warnf("listing cache invalidation failed: %+v", err)
			}
		}

		return c.JSON(http.StatusOK, apinotebooks.Deleted{
			NotebookId: notebookId,
			Warning:    strings.Join(warnings, "; "),
		})
	}
}

// CheckStateHandler reports the liveness of a notebook workload, one-shot.
func CheckStateHandler(orch k8s.Interface, paramNotebookId string) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Add("Content-Type", "application/json")
		ctx := c.Request().Context()
		notebookId := c.Param(paramNotebookId)

		state, err := orch.CheckState(ctx, notebookId)
		if err != nil {
			if errors.Is(err, domain.ErrMissing) {
				return apierr.NotFound()
			}
			return apierr.InternalServerError(err)
		}

		return c.JSON(http.StatusOK, apinotebooks.State{
			NotebookId: notebookId,
			Status:     state.String(),
		})
	}
}
