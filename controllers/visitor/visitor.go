package visitor

import (
	"errors"
	"fmt"

	"visitor-pass/logger"
	visitorModel "visitor-pass/models/visitor"
	"visitor-pass/services/pass"
	"visitor-pass/services/visitorstore"
	"visitor-pass/types"
	visitorTypes "visitor-pass/types/visitor"

	"github.com/gofiber/fiber/v2"
)

// VisitorController handles the visitor pass HTTP surface
type VisitorController struct {
	Service *pass.Service
}

// NewVisitorController creates a new visitor controller
func NewVisitorController(svc *pass.Service) *VisitorController {
	return &VisitorController{Service: svc}
}

// RequestPass accepts a visitor pass request and notifies the host.
func (vc *VisitorController) RequestPass(c *fiber.Ctx) error {
	var req visitorTypes.PassRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Error("Failed to parse request body", err)
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if err := req.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(types.ApiResponse{
			Status:  fiber.StatusBadRequest,
			Message: err.Error(),
		})
	}

	v, err := vc.Service.Submit(c.Context(), req)
	if err != nil {
		logger.Error("Failed to process visitor request", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error processing visitor request",
		})
	}

	logger.Success(fmt.Sprintf("Visit request %s submitted for host %s", v.PassNumber, v.Host))
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "✅ Request submitted. Awaiting host approval.",
	})
}

// Approve handles the host's approval link.
func (vc *VisitorController) Approve(c *fiber.Ctx) error {
	uid := c.Params("id")

	res, err := vc.Service.Approve(c.Context(), uid)
	if err != nil {
		if errors.Is(err, visitorstore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Visitor not found")
		}
		logger.Error("Approval error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Approval failed")
	}

	if !res.Changed {
		return c.SendString("Already " + res.Visitor.Status.String())
	}

	logger.Success(fmt.Sprintf("Pass %s approved and emailed", res.Visitor.PassNumber))
	return c.SendString("✅ Approved and emailed.")
}

// Reject handles the host's rejection link.
func (vc *VisitorController) Reject(c *fiber.Ctx) error {
	uid := c.Params("id")

	res, err := vc.Service.Reject(c.Context(), uid)
	if err != nil {
		if errors.Is(err, visitorstore.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).SendString("Visitor not found")
		}
		logger.Error("Rejection error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Rejection failed")
	}

	if !res.Changed {
		return c.SendString("Already " + res.Visitor.Status.String())
	}

	logger.Success(fmt.Sprintf("Pass %s rejected", res.Visitor.PassNumber))
	return c.SendString("❌ Rejected and visitor notified.")
}

// DownloadPass streams the pass PDF for an approved record.
func (vc *VisitorController) DownloadPass(c *fiber.Ctx) error {
	uid := c.Params("id")

	v, err := vc.Service.DownloadPass(c.Context(), uid, c.Response().BodyWriter())
	if err != nil {
		if errors.Is(err, visitorstore.ErrNotFound) || errors.Is(err, pass.ErrNotApproved) {
			return c.Status(fiber.StatusNotFound).SendString("Not approved or missing")
		}
		logger.Error("Download error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Download failed")
	}

	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("inline; filename=%s.pdf", v.PassNumber))
	return nil
}

// ListVisitors returns records newest first, optionally filtered by status.
// The guard view calls this with ?status=approved.
func (vc *VisitorController) ListVisitors(c *fiber.Ctx) error {
	var (
		visitors []visitorModel.Visitor
		err      error
	)
	if status := c.Query("status"); status == visitorModel.StatusApproved.String() {
		visitors, err = vc.Service.ListApproved(c.Context())
	} else {
		visitors, err = vc.Service.ListAll(c.Context())
	}
	if err != nil {
		logger.Error("Failed to list visitors", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to load visitors",
		})
	}
	return c.Status(fiber.StatusOK).JSON(visitors)
}

// CleanupOldVisitors purges records past the retention window.
func (vc *VisitorController) CleanupOldVisitors(c *fiber.Ctx) error {
	count, err := vc.Service.Cleanup(c.Context(), 0)
	if err != nil {
		logger.Error("Cleanup error", err)
		return c.Status(fiber.StatusInternalServerError).SendString("Cleanup failed")
	}

	logger.Success(fmt.Sprintf("Cleanup removed %d old visitor records", count))
	return c.SendString(fmt.Sprintf("Deleted %d old visitor records", count))
}
