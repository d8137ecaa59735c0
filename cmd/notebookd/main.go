package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/JarcauCristian/notebook-manager/cmd/notebookd/handlers"
	"github.com/JarcauCristian/notebook-manager/pkg/auth"
	"github.com/JarcauCristian/notebook-manager/pkg/cluster"
	"github.com/JarcauCristian/notebook-manager/pkg/configs"
	"github.com/JarcauCristian/notebook-manager/pkg/conn/db/postgres/pool"
	"github.com/JarcauCristian/notebook-manager/pkg/conn/redis"
	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/cache"
	kdbpg "github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/db/postgres"
	"github.com/JarcauCristian/notebook-manager/pkg/domain/notebook/k8s"
	"github.com/JarcauCristian/notebook-manager/pkg/utils/echoutil"
	"github.com/JarcauCristian/notebook-manager/pkg/utils/filewatch"
	"github.com/JarcauCristian/notebook-manager/pkg/utils/kubeutil"
)

func main() {

	configPath := flag.String("config-path", "", "server config path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	e := echo.New()
	e.Pre(middleware.AddTrailingSlash())

	// set log
	echoutil.SetLevel(e, *loglevel)
	e.HTTPErrorHandler = func(err error, ctx echo.Context) {
		e.DefaultHTTPErrorHandler(err, ctx)
		e.Logger.Error(err)
	}
	e.Use(echoutil.LogHandlerFunc)
	e.Use(middleware.CORS())

	// read configfile
	conf, err := configs.LoadManagerConfig(*configPath)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}

	// quit on config change, so the supervisor restarts with the new one
	{
		ctx, cancel, err := filewatch.UntilModifyContext(context.Background(), *configPath)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer cancel()
		context.AfterFunc(ctx, func() {
			log.Println("config file is updated. quit to restart server.")
			graceful, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			if err := e.Shutdown(graceful); err != nil {
				log.Printf("error on shutdown by config update: %s", err)
			}
		})
	}

	ctx := context.Background()

	// record store
	dbPool, err := pool.Connect(ctx, conf.DBURI)
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	defer dbPool.Close()
	if err := kdbpg.Init(ctx, dbPool); err != nil {
		log.Fatalf("can not initialize database: %s", err)
	}
	dbNotebook := kdbpg.New(dbPool)

	// listing cache; nil when disabled
	var listCache *cache.ListCache
	if conf.Cache.Enabled {
		store, err := redis.Connect(ctx, conf.Cache.Addr, conf.Cache.DB)
		if err != nil {
			log.Fatalf("can not connect to redis: %s", err)
		}
		listCache = cache.New(store, time.Duration(conf.Cache.TTLSeconds)*time.Second)
	}

	// cluster
	clientset := kubeutil.ConnectToK8s()
	clus := cluster.AttachCluster(cluster.WrapK8sClient(clientset), conf.Namespace)

	templates, err := k8s.LoadTemplates(conf.TemplatesDir)
	if err != nil {
		log.Fatalf("can not load resource templates: %s", err)
	}
	builder := k8s.NewBuilder(
		templates,
		k8s.WithIngress(conf.IngressEnabled()),
		k8s.WithAuthToken(conf.AuthTokenEnabled()),
		k8s.WithDeleterService(conf.Deleter.ServiceName, conf.Deleter.ServicePort),
	)
	orch := k8s.New(clus, builder)

	retention := time.Duration(conf.RetentionDays) * 24 * time.Hour
	validator := auth.NewKeycloakValidator(conf.UserinfoURL)

	// handlers
	root := e.Group("/notebook_manager")
	root.GET("/", handlers.HealthHandler())

	notebooks := root.Group("/notebooks", auth.BearerAuth(validator))
	{
		notebookId := "notebookId"
		notebooks.POST("/", handlers.CreateNotebookHandler(orch, dbNotebook, listCache))
		notebooks.GET("/", handlers.ListNotebooksHandler(orch, dbNotebook, listCache, retention))
		notebooks.PUT("/:notebookId/access/", handlers.TouchNotebookHandler(dbNotebook, listCache, notebookId))
		notebooks.DELETE("/:notebookId/", handlers.DeleteNotebookHandler(orch, dbNotebook, listCache, notebookId))
		notebooks.GET("/:notebookId/state/", handlers.CheckStateHandler(orch, notebookId))
	}

	log.Println("registred routes:")
	for _, r := range e.Routes() {
		log.Println(r.Method, r.Path)
	}

	cert, key := *pcert, *pkey
	if cert != "" && key != "" {
		e.Logger.Fatal(e.StartTLS(":"+conf.ServerPort, cert, key))
	} else {
		e.Logger.Fatal(e.Start(":" + conf.ServerPort))
	}
}
