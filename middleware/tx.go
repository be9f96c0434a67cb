package middleware

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/cppla/socialnet/utils"
)

const (
	contextTxKey          = "db_tx"
	contextReplyKey       = "staged_reply"
	contextAfterCommitKey = "after_commit"
)

type stagedReply struct {
	status int
	body   interface{}
}

// Transactional runs the rest of the chain inside one database transaction.
// Handlers stage their response with Reply; it is written only after a successful
// commit and the AfterCommit hooks. Any gin error or a status >= 400 rolls the whole chain back.
func Transactional(db *gorm.DB) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		tx := db.WithContext(ctx.Request.Context()).Begin()
		if tx.Error != nil {
			_ = ctx.Error(tx.Error)
			ctx.Abort()
			return
		}
		ctx.Set(contextTxKey, tx)

		committed := false
		defer func() {
			if !committed {
				tx.Rollback()
			}
		}()

		ctx.Next()

		if len(ctx.Errors) > 0 || ctx.Writer.Status() >= 400 {
			return
		}
		if err := tx.Commit().Error; err != nil {
			utils.Sugar.Errorf("commit failed path=%s err=%v", ctx.FullPath(), err)
			_ = ctx.Error(err)
			return
		}
		committed = true

		// hooks run before the reply is written
		if v, ok := ctx.Get(contextAfterCommitKey); ok {
			for _, fn := range v.([]func()) {
				fn()
			}
		}
		if v, ok := ctx.Get(contextReplyKey); ok {
			reply := v.(stagedReply)
			ctx.JSON(reply.status, reply.body)
		}
	}
}

// Tx returns the transaction opened by Transactional, if any.
func Tx(ctx *gin.Context) (*gorm.DB, bool) {
	v, ok := ctx.Get(contextTxKey)
	if !ok {
		return nil, false
	}
	tx, ok := v.(*gorm.DB)
	return tx, ok
}

// Reply stages the response inside a transaction and writes it directly otherwise.
// A later stage may replace the staged body.
func Reply(ctx *gin.Context, status int, body interface{}) {
	if _, ok := Tx(ctx); !ok {
		ctx.JSON(status, body)
		return
	}
	ctx.Set(contextReplyKey, stagedReply{status: status, body: body})
}

// AfterCommit defers fn until the transaction commits; without one it runs now.
func AfterCommit(ctx *gin.Context, fn func()) {
	if _, ok := Tx(ctx); !ok {
		fn()
		return
	}
	var hooks []func()
	if v, ok := ctx.Get(contextAfterCommitKey); ok {
		hooks = v.([]func())
	}
	ctx.Set(contextAfterCommitKey, append(hooks, fn))
}
