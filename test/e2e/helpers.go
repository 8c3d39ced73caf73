//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethograph/ethograph/internal/api/handlers"
	"github.com/ethograph/ethograph/internal/domain"
	"github.com/ethograph/ethograph/internal/protocol"
	"github.com/ethograph/ethograph/internal/rdf"
	"github.com/ethograph/ethograph/internal/repository"
	"github.com/ethograph/ethograph/internal/server"
	"github.com/ethograph/ethograph/internal/service"
	"github.com/ethograph/ethograph/internal/testutil"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

const intermediateOntology = `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix owl: <http://www.w3.org/2002/07/owl#> .
@prefix meta: <https://ethograph.org/ontology/intermediate#> .

meta:Role rdf:type owl:Class .
meta:Principle rdf:type owl:Class .
meta:Capability rdf:type owl:Class .
`

const engineeringOntology = `
@prefix rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#> .
@prefix rdfs: <http://www.w3.org/2000/01/rdf-schema#> .
@prefix meta: <https://ethograph.org/ontology/intermediate#> .
@prefix eng: <urn:eng#> .

eng:Engineer rdf:type meta:Role ;
    rdfs:label "Engineer" ;
    meta:hasCapability eng:DesignReview .

eng:DesignReview rdfs:label "Design Review" .

eng:PublicSafety rdf:type meta:Principle ;
    rdfs:label "Public Safety" .
`

// E2EEnv holds everything one end-to-end test needs: a migrated database,
// seeded ontologies, and the RPC server listening on a local port.
type E2EEnv struct {
	T         *testing.T
	Ctx       context.Context
	PostgresC *testutil.PostgresContainer
	Pool      *pgxpool.Pool
	Server    *httptest.Server
	Client    *http.Client
}

func SetupE2EEnv(t *testing.T) *E2EEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	ontologies := repository.NewOntologyRepository(pool)
	seedOntology(ctx, t, ontologies, "intermediate", intermediateOntology, false)
	seedOntology(ctx, t, ontologies, "engineering-ethics", engineeringOntology, true)

	triples := repository.NewTripleRepository(pool)
	guidelines := repository.NewGuidelineRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	loader := service.NewGraphLoader(ontologies, nil, time.Minute)
	extractor := service.NewExtractor(loader, "intermediate")
	detector := service.NewDetector(ctx, loader, triples, []string{"intermediate", "engineering-ethics"})
	cleanup := service.NewCleanupService(detector, triples, guidelines, txRunner, 100)

	registry := protocol.NewRegistry(protocol.Deps{
		Loader:        loader,
		Extractor:     extractor,
		Detector:      detector,
		Cleanup:       cleanup,
		Triples:       triples,
		Guidelines:    guidelines,
		Ontologies:    ontologies,
		ServerCache:   rdf.NewCache(time.Minute),
		DefaultDomain: "engineering-ethics",
	}, protocol.BuiltinModules())

	router := server.NewRouter(server.RouterConfig{
		RPCHandler: handlers.NewRPCHandler(registry),
	})
	srv := httptest.NewServer(router)

	return &E2EEnv{
		T:         t,
		Ctx:       ctx,
		PostgresC: pgC,
		Pool:      pool,
		Server:    srv,
		Client:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (e *E2EEnv) Cleanup() {
	if e.Server != nil {
		e.Server.Close()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
}

func seedOntology(ctx context.Context, t *testing.T, repo *repository.OntologyRepository, domainID, content string, editable bool) {
	now := time.Now().UTC()
	o := domain.NewOntologyGraph(uuid.NewString(), domainID, content, "", !editable, editable, now)
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("failed to seed ontology %s: %v", domainID, err)
	}
}

type rpcError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	ID     json.RawMessage `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *rpcError       `json:"error"`
}

// Call posts one request to /rpc and returns the decoded envelope.
func (e *E2EEnv) Call(method string, params any) (*rpcResponse, error) {
	body, err := json.Marshal(map[string]any{
		"id":     fmt.Sprintf("e2e-%d", time.Now().UnixNano()),
		"method": method,
		"params": params,
	})
	if err != nil {
		return nil, err
	}

	resp, err := e.Client.Post(e.Server.URL+"/rpc", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var envelope rpcResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, err
	}
	return &envelope, nil
}

// CallTool invokes one tool and decodes its text content into out.
func (e *E2EEnv) CallTool(name string, args map[string]any, out any) *rpcError {
	envelope, err := e.Call("call_tool", map[string]any{"name": name, "arguments": args})
	if err != nil {
		e.T.Fatalf("call_tool %s: %v", name, err)
	}
	if envelope.Error != nil {
		return envelope.Error
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(envelope.Result, &result); err != nil {
		e.T.Fatalf("call_tool %s: decoding result: %v", name, err)
	}
	if len(result.Content) == 0 {
		e.T.Fatalf("call_tool %s: empty content", name)
	}
	if out != nil {
		if err := json.Unmarshal([]byte(result.Content[0].Text), out); err != nil {
			e.T.Fatalf("call_tool %s: decoding content: %v", name, err)
		}
	}
	return nil
}
