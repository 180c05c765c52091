package delivery

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RouteRegistrar is implemented by every handler in this package.
type RouteRegistrar interface {
	RegisterRoutes(router gin.IRouter)
}

const htmlIndexPageContent = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>POS Service API</title>
    <style>
        body { font-family: Helvetica, Arial, sans-serif; line-height: 1.6; padding: 20px; background-color: #f9f9f9; color: #333; }
        h1, h2 { border-bottom: 1px solid #ccc; padding-bottom: 5px; }
        ul { list-style: none; padding-left: 0; }
        li { margin-bottom: 10px; background-color: #fff; padding: 8px; border: 1px solid #eee; border-radius: 4px; }
        code { background-color: #e8e8e8; padding: 3px 6px; border-radius: 3px; font-family: Consolas, Monaco, monospace; }
        .method { font-weight: bold; display: inline-block; width: 60px; }
    </style>
</head>
<body>
    <h1>POS Service API</h1>

    <h2>Catalog</h2>
    <ul>
        <li><span class="method">POST</span> <code>/products</code> - <code>{"name", "price", "stock", "categoryId", "image"}</code></li>
        <li><span class="method">GET</span> <code><a href="/products">/products</a></code> - optional <code>category_id</code> filter</li>
        <li><span class="method">GET</span> <code>/products/{id}</code></li>
        <li><span class="method">PATCH</span> <code>/products/{id}</code> - any subset of the product fields</li>
        <li><span class="method">DELETE</span> <code>/products/{id}</code></li>
        <li><span class="method">POST</span> <code>/categories</code> - <code>{"name", "is_active", "sort_order"}</code></li>
        <li><span class="method">GET</span> <code><a href="/categories">/categories</a></code></li>
        <li><span class="method">PATCH</span> <code>/categories/{id}</code></li>
        <li><span class="method">DELETE</span> <code>/categories/{id}</code></li>
    </ul>

    <h2>Sales</h2>
    <ul>
        <li><span class="method">POST</span> <code>/sales</code> - <code>{"items": [{"productId", "quantity"}]}</code></li>
        <li><span class="method">GET</span> <code><a href="/sales">/sales</a></code> - optional <code>q</code> and <code>newest=true</code></li>
        <li><span class="method">GET</span> <code>/sales/{id}</code></li>
    </ul>

    <h2>Reports and maintenance</h2>
    <ul>
        <li><span class="method">GET</span> <code><a href="/reports/summary">/reports/summary</a></code></li>
        <li><span class="method">GET</span> <code><a href="/reports/low-stock">/reports/low-stock</a></code> - optional <code>threshold</code></li>
        <li><span class="method">GET</span> <code><a href="/export/products.csv">/export/products.csv</a></code>, <code><a href="/export/sales.csv">/export/sales.csv</a></code></li>
        <li><span class="method">POST</span> <code>/admin/backup</code>, <code>/admin/reset?confirm=true</code></li>
    </ul>

    <h2>Operations</h2>
    <ul>
        <li><span class="method">POST</span> <code>/rpc/{operation}</code> - body is the operation arguments, see <a href="/rpc">/rpc</a></li>
    </ul>
</body>
</html>
`

func serveIndexPage(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(htmlIndexPageContent))
}

// RequestLogger logs every request before and after it is handled.
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		logger.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"ip":     c.ClientIP(),
		}).Debug("Request received")
		c.Next()
		logger.WithFields(logrus.Fields{
			"status":   c.Writer.Status(),
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"duration": time.Since(start).String(),
		}).Info("Request completed")
	}
}

// NewRouter builds the gin engine with recovery, request logging, the index
// page, /health and the routes of every handler.
func NewRouter(logger *logrus.Logger, handlers ...RouteRegistrar) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(logger))

	router.GET("/", serveIndexPage)
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	for _, h := range handlers {
		h.RegisterRoutes(router)
	}
	logger.Debugf("Registered routes for %d handlers", len(handlers))
	return router
}
