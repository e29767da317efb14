package memcoord

import (
	"fmt"
	"log"
	"sync"

	"gridline/app/interfaces"
)

// clientState tracks one connected client's execution sequencing. seq
// increments per request; deliveries from superseded executions are
// dropped, so each client only ever observes results for its most
// recently issued statement.
type clientState struct {
	client      interfaces.Client
	seq         uint64
	unsubscribe func()
}

// Coordinator is an in-memory interfaces.Coordinator over registered
// datasets.
type Coordinator struct {
	mu       sync.Mutex
	datasets map[string]*Dataset
	clients  map[string]*clientState
	syncMode bool
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithSyncDelivery makes Request deliver results inline instead of on a
// separate goroutine. Tests use it for determinism.
func WithSyncDelivery() Option {
	return func(c *Coordinator) { c.syncMode = true }
}

// New creates an empty coordinator.
func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		datasets: make(map[string]*Dataset),
		clients:  make(map[string]*clientState),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register adds a dataset, replacing any previous one with that name.
func (c *Coordinator) Register(ds *Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.datasets[ds.Name] = ds
}

// Connect implements interfaces.Coordinator. Connecting subscribes the
// client to its filter selection and runs its initial query.
func (c *Coordinator) Connect(client interfaces.Client) error {
	c.mu.Lock()
	if _, exists := c.clients[client.ClientID()]; exists {
		c.mu.Unlock()
		return fmt.Errorf("client %s already connected", client.ClientID())
	}
	state := &clientState{client: client}
	c.clients[client.ClientID()] = state
	c.mu.Unlock()

	if sel := client.FilterBy(); sel != nil {
		state.unsubscribe = sel.Subscribe(func(string) {
			c.Request(client)
		})
	}

	c.Request(client)
	return nil
}

// Disconnect implements interfaces.Coordinator. Any in-flight execution
// is superseded so nothing is delivered after detach.
func (c *Coordinator) Disconnect(client interfaces.Client) {
	c.mu.Lock()
	state, ok := c.clients[client.ClientID()]
	if ok {
		state.seq++
		delete(c.clients, client.ClientID())
	}
	c.mu.Unlock()

	if ok && state.unsubscribe != nil {
		state.unsubscribe()
	}
}

// Request implements interfaces.Coordinator: obtain the client's
// current statement and deliver its outcome. Submission returns
// immediately unless sync delivery is on.
func (c *Coordinator) Request(client interfaces.Client) {
	c.mu.Lock()
	state, ok := c.clients[client.ClientID()]
	if !ok {
		c.mu.Unlock()
		return
	}
	state.seq++
	seq := state.seq
	c.mu.Unlock()

	run := func() { c.run(state, seq) }
	if c.syncMode {
		run()
		return
	}
	go run()
}

// run executes one request cycle for a client.
func (c *Coordinator) run(state *clientState, seq uint64) {
	client := state.client

	filter := ""
	if sel := client.FilterBy(); sel != nil {
		filter = sel.Value()
	}
	stmt := client.Query(filter)
	if stmt == nil {
		return
	}

	tableName := ""
	if from, ok := stmt.(interface{ Table() string }); ok {
		tableName = from.Table()
	}

	c.mu.Lock()
	ds := c.datasets[tableName]
	stale := state.seq != seq
	c.mu.Unlock()
	if stale {
		log.Printf("[COORD_SUPERSEDED] dropping execution for client %s", client.ClientID())
		return
	}
	if ds == nil {
		client.QueryError(fmt.Errorf("unknown table %q", tableName))
		return
	}

	res, err := execute(stmt, ds)

	c.mu.Lock()
	stale = state.seq != seq
	c.mu.Unlock()
	if stale {
		log.Printf("[COORD_SUPERSEDED] dropping delivery for client %s", client.ClientID())
		return
	}

	if err != nil {
		client.QueryError(err)
		return
	}
	client.QueryResult(res)
}

// QueryFieldInfo implements interfaces.Coordinator.
func (c *Coordinator) QueryFieldInfo(table string) ([]interfaces.FieldInfo, error) {
	c.mu.Lock()
	ds := c.datasets[table]
	c.mu.Unlock()
	if ds == nil {
		return nil, fmt.Errorf("unknown table %q", table)
	}

	fields := make([]interfaces.FieldInfo, len(ds.Header))
	for i, h := range ds.Header {
		fields[i] = interfaces.FieldInfo{Column: h, SQLType: ds.SQLTypes[i]}
	}
	return fields, nil
}
