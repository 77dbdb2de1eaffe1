package request

type CheckoutRequest struct {
	Method    string `json:"method" binding:"required,oneof=online_gateway bank_transfer direct_agreement"`
	IsPartial bool   `json:"is_partial"`
}

type EvidenceRequest struct {
	EvidenceRef string `json:"evidence_ref" binding:"required"`
}

type RejectPaymentRequest struct {
	FailCode string `json:"fail_code" binding:"required"`
}
