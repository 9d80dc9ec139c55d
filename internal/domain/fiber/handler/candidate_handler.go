package handler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/talentview/hr-insight/internal/dto"
	"github.com/talentview/hr-insight/internal/middleware"
	"github.com/talentview/hr-insight/internal/repository"
	"github.com/talentview/hr-insight/internal/response"
	"github.com/talentview/hr-insight/internal/usecase"
	"github.com/talentview/hr-insight/internal/util"
)

const (
	maxResumeSize = 5 * 1024 * 1024
	uploadDir     = "./uploads/resumes/"
)

type CandidateHandler struct {
	extraction     *usecase.ExtractionUsecase
	recommendation *usecase.RecommendationUsecase
	chat           *usecase.ChatUsecase
}

func NewCandidateHandler(
	extraction *usecase.ExtractionUsecase,
	recommendation *usecase.RecommendationUsecase,
	chat *usecase.ChatUsecase,
) *CandidateHandler {
	return &CandidateHandler{
		extraction:     extraction,
		recommendation: recommendation,
		chat:           chat,
	}
}

func (h *CandidateHandler) RegisterRoutes(app *fiber.App) {
	app.Post("/candidates/extract", middleware.RateLimiter(1, 4*time.Second), h.Extract)
	app.Get("/candidates", h.List)
	app.Get("/candidates/:id", h.Get)
	app.Delete("/candidates/:id", h.Delete)
	app.Get("/recommendations", h.Recommendations)
	app.Get("/dashboard/table", h.DashboardTable)
	app.Get("/dashboard/radar", h.DashboardRadar)
	app.Get("/dashboard/experience", h.DashboardExperience)
	app.Post("/chat", h.Chat)
}

// Extract ingests one resume and returns the stored candidate. Extraction
// is synchronous: the dashboard shows the result of this call directly.
func (h *CandidateHandler) Extract(c *fiber.Ctx) error {
	position := strings.TrimSpace(c.FormValue("position"))
	if position == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "position is required",
		})
	}

	resumeText, err := h.processResumeFile(c)
	if err != nil {
		return err
	}

	candidate, partial, err := h.extraction.Extract(c.Context(), usecase.ExtractionInput{
		ResumeText: resumeText,
		Position:   position,
		Region:     strings.TrimSpace(c.FormValue("region")),
		Department: strings.TrimSpace(c.FormValue("department")),
	})
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to extract candidate profile",
		}, err)
	}

	result := dto.ExtractionResultDTO{
		Candidate: usecase.ToCandidateDTO(candidate),
	}
	message := "Candidate profile extracted"
	if partial != nil {
		result.Partial = true
		result.MissingFields = partial.Missing
		message = "Candidate profile extracted with missing fields"
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: message,
		Data:    result,
	})
}

func (h *CandidateHandler) processResumeFile(c *fiber.Ctx) (string, error) {
	file, err := c.FormFile("resume")
	if err != nil {
		return "", util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file is required",
		}, err)
	}

	if file.Size > maxResumeSize {
		return "", util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "resume file size is too large (max 5MB)",
		})
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	switch ext {
	case ".pdf", ".docx", ".txt":
	default:
		return "", util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: fmt.Sprintf("unsupported resume file type %q", ext),
		})
	}

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot create upload directory",
		}, err)
	}
	savePath := resumeSavePath(file.Filename)
	if err := c.SaveFile(file, savePath); err != nil {
		return "", util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "cannot save resume file",
		}, err)
	}

	content, err := util.ExtractDocumentText(savePath)
	if err != nil {
		return "", util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: "failed to extract resume text",
		}, err)
	}

	return content, nil
}

func (h *CandidateHandler) Get(c *fiber.Ctx) error {
	candidate, err := h.recommendation.Get(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "candidate not found",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get candidate",
		Data:    usecase.ToCandidateDTO(candidate),
	})
}

func (h *CandidateHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	pageSize := c.QueryInt("page_size", 20)
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	items, total, err := h.recommendation.List(filterFromQuery(c), page, pageSize)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to list candidates",
		}, err)
	}

	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success list candidates",
		Data:       items,
		Pagination: buildPagination(page, pageSize, total, len(items)),
	})
}

func (h *CandidateHandler) Delete(c *fiber.Ctx) error {
	if err := h.recommendation.Delete(c.Params("id")); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to delete candidate",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success delete candidate",
	})
}

// Recommendations returns the ordered shortlist for the filter. An empty
// shortlist is a successful response.
func (h *CandidateHandler) Recommendations(c *fiber.Ctx) error {
	shortlist, err := h.recommendation.Shortlist(filterFromQuery(c), c.QueryInt("limit"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to build shortlist",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get recommendations",
		Data:    shortlist,
	})
}

func (h *CandidateHandler) DashboardTable(c *fiber.Ctx) error {
	rows, err := h.recommendation.Table(filterFromQuery(c), c.QueryInt("limit"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to build candidates table",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get candidates table",
		Data:    rows,
	})
}

func (h *CandidateHandler) DashboardRadar(c *fiber.Ctx) error {
	rows, err := h.recommendation.Radar(filterFromQuery(c), c.QueryInt("limit"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to build radar data",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get radar data",
		Data:    rows,
	})
}

func (h *CandidateHandler) DashboardExperience(c *fiber.Ctx) error {
	buckets, err := h.recommendation.ExperienceDistribution(filterFromQuery(c))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "failed to build experience distribution",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get experience distribution",
		Data:    buckets,
	})
}

// Chat forwards a recruiter question to the LLM. Errors come back in the
// body so the chat widget can show them inline.
func (h *CandidateHandler) Chat(c *fiber.Ctx) error {
	var req dto.ChatRequestDTO
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "invalid chat request body",
		}, err)
	}
	if strings.TrimSpace(req.Message) == "" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: "message is required",
		})
	}

	answer, err := h.chat.Ask(c.Context(), req)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Message: "chat request failed",
		}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get chat answer",
		Data:    answer,
	})
}

func filterFromQuery(c *fiber.Ctx) repository.Filter {
	return repository.Filter{
		Position:   strings.TrimSpace(c.Query("position")),
		Region:     strings.TrimSpace(c.Query("region")),
		Department: strings.TrimSpace(c.Query("department")),
	}
}

// resumeSavePath keeps uploads inside the upload directory regardless of
// what the client puts in the filename.
func resumeSavePath(filename string) string {
	return filepath.Join(uploadDir, filepath.Base(filename))
}

func buildPagination(page, pageSize int, total int64, count int) *response.Pagination {
	totalPages := (total + int64(pageSize) - 1) / int64(pageSize)
	from, to := 0, 0
	if count > 0 {
		from = (page-1)*pageSize + 1
		to = from + count - 1
	}
	return &response.Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		TotalItems: total,
		HasMore:    int64(page) < totalPages,
		From:       from,
		To:         to,
	}
}
