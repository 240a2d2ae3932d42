package ctx

import (
	"context"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

/**
 * @author: gagral.x@gmail.com
 * @file: ctx.go
 * @description: Global context
 */

type Context struct {
	MySQLIns *gorm.DB
	RedisIns *redis.Client
	Ctx      context.Context
	Log      *zap.SugaredLogger
}

func NewContext(ctx context.Context, mysql *gorm.DB, redisClient *redis.Client, log *zap.SugaredLogger) *Context {
	return &Context{
		MySQLIns: mysql,
		RedisIns: redisClient,
		Ctx:      ctx,
		Log:      log,
	}
}

func (c *Context) GetCtx() context.Context {
	return c.Ctx
}

func (c *Context) SetMySQLIns(db *gorm.DB) {
	c.MySQLIns = db
}

func (c *Context) GetMySQLIns() *gorm.DB {
	return c.MySQLIns
}

func (c *Context) SetRedis(client *redis.Client) {
	c.RedisIns = client
}

func (c *Context) GetRedis() *redis.Client {
	return c.RedisIns
}
