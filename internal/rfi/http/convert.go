package http

import (
	"github.com/buildvane/rfihub/internal/rfi/domain"
	"github.com/buildvane/rfihub/internal/rfi/service"
	"github.com/buildvane/rfihub/internal/rfi/workflow"
	"github.com/buildvane/rfihub/pkg/rfisdk"
)

func workflowAction(s string) workflow.Action {
	return workflow.Action(s)
}

func workflowAux(req rfisdk.TransitionRequest) workflow.Aux {
	return workflow.Aux{
		DueDate:    req.DueDate,
		AssignedTo: req.AssignedTo,
		Response:   req.Response,
	}
}

func toProjectResponse(p domain.Project) rfisdk.ProjectResponse {
	return rfisdk.ProjectResponse{
		ID:                p.ID,
		Name:              p.Name,
		ClientCompanyName: p.ClientCompanyName,
		CreatedBy:         p.CreatedBy,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}

func toRFIResponse(v service.RFIView) rfisdk.RFIResponse {
	return rfisdk.RFIResponse{
		ID:           v.ID,
		ProjectID:    v.ProjectID,
		Subject:      v.Subject,
		Question:     v.Question,
		Status:       string(v.Status),
		Stage:        string(v.Stage),
		Overdue:      v.Overdue,
		DueDate:      v.DueDate,
		Response:     v.Response,
		ResponseDate: v.ResponseDate,
		AssignedTo:   v.AssignedTo,
		CreatedBy:    v.CreatedBy,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func toClientRFIResponse(v service.ClientRFIView) rfisdk.ClientRFIResponse {
	return rfisdk.ClientRFIResponse{
		ID:           v.ID,
		Subject:      v.Subject,
		Question:     v.Question,
		Status:       string(v.Status),
		Stage:        string(v.Stage),
		DueDate:      v.DueDate,
		Response:     v.Response,
		ResponseDate: v.ResponseDate,
	}
}

func toNotificationInfo(n domain.NotificationEvent) rfisdk.NotificationInfo {
	return rfisdk.NotificationInfo{
		ID:              n.ID,
		RFIID:           n.RFIID,
		Type:            string(n.Type),
		PerformedBy:     n.PerformedBy,
		PerformedByType: string(n.PerformedByType),
		FromStatus:      string(n.FromStatus),
		ToStatus:        string(n.ToStatus),
		Reason:          n.Reason,
		CreatedAt:       n.CreatedAt,
	}
}
