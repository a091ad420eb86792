package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/contentdesk/internal/api/handlers"
)

type Handlers struct {
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Post      *handlers.PostHandler
	Guideline *handlers.GuidelineHandler
	Prompt    *handlers.PromptHandler
	Workflow  *handlers.WorkflowHandler
	History   *handlers.HistoryHandler
}

// Register mounts the login flow at the root and everything else under
// /api behind auth.
func Register(app *fiber.App, h Handlers, auth fiber.Handler) {
	app.Get("/healthz", func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})

	app.Get("/login", h.Auth.Login)
	app.Get("/login/callback", h.Auth.LoginCallbackHandler)
	app.Post("/logout", h.Auth.Logout)

	api := app.Group("/api")
	api.Use(auth)

	api.Get("/user/info", h.User.GetUserInfo)

	posts := api.Group("/posts")
	posts.Get("/", h.Post.ListPosts)
	posts.Post("/", h.Post.CreatePost)
	posts.Post("/reload", h.Post.ReloadPosts)
	posts.Post("/drafts", h.Post.NewDraft)
	posts.Post("/save", h.Post.SaveAll)
	posts.Get("/approval", h.Post.ApprovalQueue)
	posts.Get("/publish", h.Post.PublishQueue)
	posts.Get("/:id", h.Post.GetPost)
	posts.Patch("/:id", h.Post.EditPost)
	posts.Delete("/:id", h.Post.RemovePost)
	posts.Post("/:id/save", h.Post.SavePost)
	posts.Post("/:id/discard", h.Post.DiscardPost)
	posts.Put("/:id/status", h.Post.SetStatus)
	posts.Put("/:id/schedule", h.Post.SchedulePost)
	posts.Post("/:id/image", h.Post.UploadImage)

	guidelines := api.Group("/guidelines")
	guidelines.Get("/", h.Guideline.ListGuidelines)
	guidelines.Put("/main", h.Guideline.EditMain)
	guidelines.Post("/save", h.Guideline.SaveAll)
	guidelines.Post("/styles", h.Guideline.CreateStyle)
	guidelines.Delete("/styles/:id", h.Guideline.RemoveStyle)
	guidelines.Patch("/:id", h.Guideline.EditGuideline)
	guidelines.Post("/:id/save", h.Guideline.SaveGuideline)
	guidelines.Post("/:id/discard", h.Guideline.DiscardGuideline)

	prompts := api.Group("/prompts")
	prompts.Get("/", h.Prompt.ListPrompts)
	prompts.Post("/save", h.Prompt.SaveAll)
	prompts.Patch("/:id", h.Prompt.EditPrompt)
	prompts.Post("/:id/save", h.Prompt.SavePrompt)

	api.Get("/folders", h.Prompt.ListFolders)

	workflows := api.Group("/workflows")
	workflows.Post("/content", h.Workflow.GenerateContent)
	workflows.Post("/campaign", h.Workflow.StartCampaign)
	workflows.Post("/idea", h.Workflow.SubmitIdea)
	api.Post("/sources/preview", h.Workflow.PreviewSource)

	api.Get("/analytics", h.History.Analytics)
	api.Get("/triggers", h.History.ListTriggers)
	api.Get("/anomalies", h.History.ListAnomalies)
}
