package dto

import catalogdto "github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"

type ChatInput struct {
	Message  string                     `json:"message"`
	Criteria *catalogdto.FilterCriteria `json:"criteria,omitempty"`
}
