package app

import (
	"context"
	"testing"
	"time"

	fundinggrpc "github.com/sarangparikh22/bentofund/internal/funding/api/grpc/funding"
	"github.com/sarangparikh22/bentofund/internal/funding/service"
	platformgrpc "github.com/sarangparikh22/bentofund/internal/platform/grpc"
	"github.com/sarangparikh22/bentofund/internal/vault"
	"google.golang.org/grpc"
)

func TestServer_CreateGetAndListProjectsRoundTrip(t *testing.T) {
	dbPath := t.TempDir() + "/funding.db"
	t.Setenv("BENTOFUND_DB_PATH", dbPath)

	srv, err := NewWithAddr("127.0.0.1:0")
	if err != nil {
		t.Fatalf("new server: %v", err)
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	serveDone := make(chan error, 1)
	go func() {
		serveDone <- srv.Serve(runCtx)
	}()
	t.Cleanup(func() {
		runCancel()
		select {
		case serveErr := <-serveDone:
			if serveErr != nil {
				t.Fatalf("serve: %v", serveErr)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("timeout waiting for server shutdown")
		}
	})

	conn, err := grpc.NewClient(srv.Addr(), platformgrpc.DefaultClientDialOptions()...)
	if err != nil {
		t.Fatalf("dial funding server: %v", err)
	}
	t.Cleanup(func() {
		if closeErr := conn.Close(); closeErr != nil {
			t.Fatalf("close gRPC connection: %v", closeErr)
		}
	})

	healthCtx, healthCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer healthCancel()
	if err := platformgrpc.WaitForHealth(healthCtx, conn, fundinggrpc.ServiceName, t.Logf); err != nil {
		t.Fatalf("wait for health: %v", err)
	}

	client := fundinggrpc.NewClient(conn)

	start := time.Now().Add(time.Hour).UTC()
	created, err := client.CreateProject(context.Background(), fundinggrpc.CreateProjectCall{
		Caller: vault.AccountID("alice"),
		CreateProjectRequest: service.CreateProjectRequest{
			Asset: vault.AssetID("tok0"),
			Goal:  1000,
			Start: start,
			End:   start.Add(time.Hour),
		},
	})
	if err != nil {
		t.Fatalf("create project: %v", err)
	}
	if created.ProjectID != 1 {
		t.Fatalf("project_id = %d, want 1", created.ProjectID)
	}

	getResp, err := client.GetProject(context.Background(), created.ProjectID)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if getResp.Phase != "scheduled" {
		t.Fatalf("phase = %q, want scheduled", getResp.Phase)
	}
	if getResp.Goal != 1000 {
		t.Fatalf("goal = %d, want 1000", getResp.Goal)
	}

	listResp, err := client.ListProjects(context.Background(), fundinggrpc.ListProjectsCall{PageSize: 10})
	if err != nil {
		t.Fatalf("list projects: %v", err)
	}
	if len(listResp.Projects) != 1 {
		t.Fatalf("projects len = %d, want 1", len(listResp.Projects))
	}
}
