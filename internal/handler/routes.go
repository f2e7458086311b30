package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/sistema-pagamento-api/internal/middleware"
)

// Handlers groups the API handlers mounted by RegisterRoutes.
type Handlers struct {
	Students *StudentHandler
	Payments *PaymentHandler
}

// RegisterRoutes mounts the student and payment API on r. When tokens is nil the write routes are public.
func RegisterRoutes(r gin.IRouter, h Handlers, tokens middleware.TokenValidator) {
	var write, validate []gin.HandlerFunc
	if tokens != nil {
		write = []gin.HandlerFunc{middleware.JWT(tokens)}
		validate = []gin.HandlerFunc{
			middleware.JWT(tokens),
			middleware.RequireRoles(middleware.RoleAdmin, middleware.RoleValidator),
		}
	}

	r.GET("/estudantes", h.Students.List)
	r.POST("/estudantes", chain(write, h.Students.Register)...)
	r.GET("/estudantes/:codigo", h.Students.Get)
	r.GET("/estudantes/:codigo/pagamentos", h.Payments.ListByStudent)
	r.GET("/estudantesPorPrograma", h.Students.ListByProgram)

	r.POST("/pagamento", chain(write, h.Payments.Create)...)
	r.GET("/pagamento/porStatus", h.Payments.ListByStatus)
	r.GET("/pagamento/porTipo", h.Payments.ListByType)
	r.PUT("/pagamento/:pagamentoId/atualizarPagamento", chain(validate, h.Payments.UpdateStatus)...)

	r.GET("/pagamentos", h.Payments.List)
	r.GET("/pagamentos/export", h.Payments.Export)
	r.GET("/pagamentos/:id", h.Payments.Get)
	r.GET("/pagamentoArquivo/:pagamentoId", h.Payments.Receipt)
}

func chain(guards []gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(guards)+1)
	out = append(out, guards...)
	return append(out, handler)
}
