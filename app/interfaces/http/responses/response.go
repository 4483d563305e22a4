package responses

import (
	"github.com/gin-gonic/gin"
	"repairshop.dev/photo-gateway/app/domain/common"
)

type ErrorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
}

type GeneralResponse[T any] struct {
	Status string `json:"status"`
	Result T      `json:"result"`
}

const ResponseCodeOk = "000000"

func Ok[T any](result T) GeneralResponse[T] {
	return GeneralResponse[T]{Status: ResponseCodeOk, Result: result}
}

// Abort ends the request with err's status and code.
func Abort(reqCtx *gin.Context, err *common.Error) {
	reqCtx.AbortWithStatusJSON(err.Status, ErrorResponse{
		Code:  err.Code,
		Error: err.Message,
	})
}
