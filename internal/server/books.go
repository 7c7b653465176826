package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"booktracker/internal/records"
	"booktracker/internal/store"
	"booktracker/internal/validation"
	"booktracker/internal/workflow"
)

func (srv *Server) listBooks(c *gin.Context) {
	view := currentSession(c).Desk.View()
	if err := view.Reload(c.Request.Context()); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"result": workflow.LoadFailure(err), "books": view.Rows()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"books": view.Rows()})
}

func (srv *Server) addBook(c *gin.Context) {
	var fields records.Fields
	if err := c.ShouldBindJSON(&fields); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	desk := currentSession(c).Desk
	form := desk.NewForm()
	form.Fill(fields)
	res, err := form.Submit(c.Request.Context())
	if err != nil {
		if verrs, ok := err.(validation.Errors); ok {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"errors": verrs, "values": form.Values()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !res.OK() {
		c.JSON(http.StatusBadGateway, gin.H{"result": res, "values": form.Values()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"result": res, "books": desk.View().Rows()})
}

func (srv *Server) startEdit(c *gin.Context) {
	desk := currentSession(c).Desk
	if !desk.View().Loaded() {
		if err := desk.View().Reload(c.Request.Context()); err != nil {
			c.JSON(http.StatusBadGateway, gin.H{"result": workflow.LoadFailure(err)})
			return
		}
	}

	wid, e, err := desk.StartEdit(c.Param("id"))
	if err != nil {
		if errors.Cause(err) == workflow.ErrUnknownRecord {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	prompt, _ := e.Prompt()
	c.JSON(http.StatusCreated, gin.H{"workflow_id": wid, "stage": e.Stage(), "prompt": prompt})
}

func (srv *Server) showEdit(c *gin.Context) {
	wid := c.Param("wid")
	e, ok := currentSession(c).Desk.Edit(wid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such edit"})
		return
	}
	prompt, ok := e.Prompt()
	if !ok {
		c.JSON(http.StatusConflict, gin.H{"error": workflow.ErrWorkflowFinished.Error(), "stage": e.Stage()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workflow_id": wid, "stage": e.Stage(), "prompt": prompt})
}

func (srv *Server) answerEdit(c *gin.Context) {
	var ans workflow.Answer
	if err := c.ShouldBindJSON(&ans); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	wid := c.Param("wid")
	desk := currentSession(c).Desk
	e, ok := desk.Edit(wid)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such edit"})
		return
	}

	stage, err := e.Answer(c.Request.Context(), ans)
	if err == workflow.ErrWorkflowFinished {
		desk.Forget(wid)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "stage": stage})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if !stage.Terminal() {
		prompt, _ := e.Prompt()
		c.JSON(http.StatusOK, gin.H{"workflow_id": wid, "stage": stage, "prompt": prompt})
		return
	}

	desk.Forget(wid)
	res, _ := e.Result()
	switch stage {
	case workflow.Failed:
		c.JSON(http.StatusBadGateway, gin.H{"workflow_id": wid, "stage": stage, "result": res})
	default:
		c.JSON(http.StatusOK, gin.H{"workflow_id": wid, "stage": stage, "result": res, "books": desk.View().Rows()})
	}
}

func confirmCompletion(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"record_id": c.Param("id"), "confirm": workflow.CompletionPrompt})
}

type completeRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (srv *Server) completeBook(c *gin.Context) {
	var req completeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	desk := currentSession(c).Desk
	res := desk.Completion().Resolve(c.Request.Context(), c.Param("id"), req.Confirmed)
	switch {
	case res.Outcome == workflow.Silent:
		c.Status(http.StatusNoContent)
	case res.OK():
		c.JSON(http.StatusOK, gin.H{"result": res, "books": desk.View().Rows()})
	case errors.Cause(res.Err) == store.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"result": res})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"result": res})
	}
}
