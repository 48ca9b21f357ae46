// Command server runs the SQL wire protocol dispatcher, the admin gRPC
// surface, and the background monitor against a single database file.
package main

import (
	"context"
	"flag"
	"log"
	"net"
	"syscall"

	"github.com/SimonWaldherr/slotdbd/internal/db"
	"github.com/SimonWaldherr/slotdbd/internal/server"
)

var flagConfig = flag.String("config", "", "path to a YAML config file (flags below override it)")

func main() {
	cfg := server.DefaultConfig()
	cfg.BindFlags(flag.CommandLine)
	flag.Parse()
	explicit := map[string]string{}
	flag.Visit(func(f *flag.Flag) { explicit[f.Name] = f.Value.String() })
	fileCfg, err := server.LoadConfig(*flagConfig)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	cfg = fileCfg
	for name, value := range explicit {
		flag.Set(name, value)
	}

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer database.Close()

	lis, err := reuseListener(cfg.ListenAddr)
	if err != nil {
		log.Fatalf("listen on %s: %v", cfg.ListenAddr, err)
	}

	dispatcher := server.NewDispatcher(lis, database, cfg.WorkerCount, cfg.QueueSize)

	monitor := server.NewMonitor(database)
	if err := monitor.Start(); err != nil {
		log.Fatalf("start monitor: %v", err)
	}
	defer monitor.Stop()

	adminLis, err := net.Listen("tcp", cfg.AdminAddr)
	if err != nil {
		log.Fatalf("listen on admin addr %s: %v", cfg.AdminAddr, err)
	}
	adminServer := server.NewAdminGRPCServer(database)
	go func() {
		log.Printf("admin gRPC listening on %s", cfg.AdminAddr)
		if err := adminServer.Serve(adminLis); err != nil {
			log.Printf("admin server stopped: %v", err)
		}
	}()
	defer adminServer.GracefulStop()

	log.Printf("sql listening on %s", cfg.ListenAddr)
	if err := dispatcher.Run(); err != nil {
		log.Fatalf("dispatcher: %v", err)
	}
}

// reuseListener binds with SO_REUSEADDR and SO_REUSEPORT set (§6.3/§4.9),
// so a restarted server can rebind the same port while old connections
// drain.
func reuseListener(addr string) (net.Listener, error) {
	lc := net.ListenConfig{
		Control: func(network, address string, c syscall.RawConn) error {
			var ctrlErr error
			err := c.Control(func(fd uintptr) {
				if err := syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1); err != nil {
					ctrlErr = err
					return
				}
				ctrlErr = setReusePort(int(fd))
			})
			if err != nil {
				return err
			}
			return ctrlErr
		},
	}
	return lc.Listen(context.Background(), "tcp", addr)
}
