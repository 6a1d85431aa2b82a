package endpoints

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Nixie-Tech-LLC/salawat/internal/http/api"
	"github.com/Nixie-Tech-LLC/salawat/internal/http/api/admin/control/packets"
	"github.com/Nixie-Tech-LLC/salawat/internal/model"
	"github.com/Nixie-Tech-LLC/salawat/internal/scheduler"
)

type TaskController struct {
	scheduler *scheduler.Scheduler
}

// TaskModule mounts /tasks
func TaskModule(s *scheduler.Scheduler) api.Module {
	ctl := &TaskController{scheduler: s}
	return api.ModuleFunc(func(c *api.Controller) {
		c.GET("/tasks", ctl.listTasks)
		c.POST("/tasks/:name/start", ctl.startTask)
		c.POST("/tasks/:name/stop", ctl.stopTask)
	})
}

func taskError(err error) *api.APIError {
	switch {
	case errors.Is(err, scheduler.ErrUnknownTask):
		return api.NotFound("unknown task")
	case errors.Is(err, scheduler.ErrRunning):
		return &api.APIError{Code: http.StatusConflict, Message: "task already running"}
	case errors.Is(err, scheduler.ErrNotRunning):
		return &api.APIError{Code: http.StatusConflict, Message: "task not running"}
	default:
		return api.Internal(err.Error())
	}
}

func (t *TaskController) tasks() []packets.TaskResponse {
	list := t.scheduler.Tasks()
	out := make([]packets.TaskResponse, 0, len(list))
	for _, st := range list {
		resp := packets.TaskResponse{
			Name:     st.Name,
			Interval: st.Interval.String(),
			Running:  st.Running,
			Runs:     st.Runs,
		}
		if st.LastRun != nil {
			s := st.LastRun.Format(time.RFC3339)
			resp.LastRun = &s
		}
		out = append(out, resp)
	}
	return out
}

// GET /api/admin/tasks
func (t *TaskController) listTasks(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	return t.tasks(), nil
}

// POST /api/admin/tasks/:name/start
func (t *TaskController) startTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := t.scheduler.Start(ctx.Param("name")); err != nil {
		return nil, taskError(err)
	}
	return t.tasks(), nil
}

// POST /api/admin/tasks/:name/stop
func (t *TaskController) stopTask(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	if err := t.scheduler.Stop(ctx.Param("name")); err != nil {
		return nil, taskError(err)
	}
	return t.tasks(), nil
}
