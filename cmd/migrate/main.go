// Migration tool for the TaskFlow database
package main

import (
	"flag"

	"k8s.io/klog/v2"

	"github.com/raids-lab/taskflow/dao/query"
	"github.com/raids-lab/taskflow/pkg/config"
)

func main() {
	rollback := flag.Bool("rollback", false, "undo the most recent migration instead of migrating")
	flag.Parse()

	db, err := query.Open(config.GetConfig())
	if err != nil {
		klog.Fatalf("connect db fail: %s", err)
	}

	if *rollback {
		if err := query.RollbackLast(db); err != nil {
			klog.Fatalf("%s", err)
		}
		klog.Info("rolled back the last migration")
		return
	}
	if err := query.Migrate(db); err != nil {
		klog.Fatalf("%s", err)
	}
	klog.Info("database is up to date")
}
