package main

import (
	"k8s.io/klog/v2"

	"github.com/raids-lab/taskflow/cmd/taskflow/helper"
)

// @title						TaskFlow API
// @version						1.0.0
// @description					API server for TaskFlow, a Kanban board with project roles.
// @BasePath					/api
// @securityDefinitions.apikey	Bearer
// @in							header
// @name						Authorization
// @description					Call /v1/auth/login and fill in 'Bearer ${TOKEN}' to access protected routes
func main() {
	configInit := helper.NewConfigInitializer()
	backendConfig := configInit.GetBackendConfig()

	if err := configInit.LoadDebugEnvironment(); err != nil {
		klog.Fatalf("Failed to load env: %s", err)
	}

	registerConfig, err := configInit.InitializeRegisterConfig()
	if err != nil {
		klog.Fatalf("Failed to register config: %s\n", err)
	}

	serverRunner := helper.NewServerRunner(backendConfig)
	if err := serverRunner.StartReminders(registerConfig); err != nil {
		klog.Fatalf("Failed to schedule reminders: %s", err)
	}

	serverRunner.StartServer(registerConfig)
}
