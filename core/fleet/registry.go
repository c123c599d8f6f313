// Package fleet holds the registry owning every vehicle and client of a
// session. The registry is created by the composition root and passed
// explicitly to the allocator and to reporting.
package fleet

import (
	"errors"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/cargofleet/core/logger"
	"github.com/kilianp07/cargofleet/core/model"
)

// ErrNilEntity is returned when registering a nil vehicle or client.
var ErrNilEntity = errors.New("fleet: nil entity")

// Registry keeps vehicles and clients in registration order and enforces
// id uniqueness within each collection.
type Registry struct {
	name string
	log  logger.Logger

	mu         sync.RWMutex
	vehicles   []*model.Vehicle
	clients    []*model.Client
	vehicleIDs map[string]struct{}
	clientIDs  map[string]struct{}
}

// NewRegistry creates an empty registry for the named company.
func NewRegistry(name string, log logger.Logger) *Registry {
	return &Registry{
		name:       name,
		log:        logger.OrNop(log),
		vehicleIDs: make(map[string]struct{}),
		clientIDs:  make(map[string]struct{}),
	}
}

// Name returns the company name.
func (r *Registry) Name() string { return r.name }

// RegisterVehicle appends v. A vehicle whose id is already registered is
// rejected with a DuplicateIDError and the registry is left unchanged.
func (r *Registry) RegisterVehicle(v *model.Vehicle) error {
	if v == nil {
		return ErrNilEntity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.vehicleIDs[v.ID()]; ok {
		r.log.Warnf("vehicle %s already registered, rejecting", v.ID())
		return &model.DuplicateIDError{Entity: "vehicle", ID: v.ID()}
	}
	r.vehicleIDs[v.ID()] = struct{}{}
	r.vehicles = append(r.vehicles, v)
	r.log.Debugf("registered %s", v)
	return nil
}

// RegisterClient appends c with the same contract as RegisterVehicle.
func (r *Registry) RegisterClient(c *model.Client) error {
	if c == nil {
		return ErrNilEntity
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.clientIDs[c.ID()]; ok {
		r.log.Warnf("client %s already registered, rejecting", c.ID())
		return &model.DuplicateIDError{Entity: "client", ID: c.ID()}
	}
	r.clientIDs[c.ID()] = struct{}{}
	r.clients = append(r.clients, c)
	r.log.Debugf("registered %s", c)
	return nil
}

// Vehicles returns the vehicles in registration order. The slice is a copy.
func (r *Registry) Vehicles() []*model.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*model.Vehicle(nil), r.vehicles...)
}

// Clients returns the clients in registration order. The slice is a copy.
func (r *Registry) Clients() []*model.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*model.Client(nil), r.clients...)
}

// Vehicle looks a vehicle up by id.
func (r *Registry) Vehicle(id string) (*model.Vehicle, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, v := range r.vehicles {
		if v.ID() == id {
			return v, true
		}
	}
	return nil, false
}

// Client looks a client up by id.
func (r *Registry) Client(id string) (*model.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, c := range r.clients {
		if c.ID() == id {
			return c, true
		}
	}
	return nil, false
}

// VehiclesWithCapacity returns the vehicles that still have room.
func (r *Registry) VehiclesWithCapacity() []*model.Vehicle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var res []*model.Vehicle
	for _, v := range r.vehicles {
		if v.RemainingCapacity() > 0 {
			res = append(res, v)
		}
	}
	return res
}

// ResetLoads unloads every vehicle.
func (r *Registry) ResetLoads() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, v := range r.vehicles {
		v.UnloadCargo()
	}
	r.log.Infof("unloaded %d vehicles", len(r.vehicles))
}

// Exclusive runs fn with the registry write lock held. Registration, reads
// and other exclusive sections wait until fn returns, which makes one
// allocation pass a single transaction over the vehicle loads. fn must not
// call back into the registry.
func (r *Registry) Exclusive(fn func(vehicles []*model.Vehicle, clients []*model.Client)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(append([]*model.Vehicle(nil), r.vehicles...), append([]*model.Client(nil), r.clients...))
}

// Stats summarises the company.
type Stats struct {
	CompanyName           string  `json:"company_name" yaml:"company_name"`
	TotalVehicles         int     `json:"total_vehicles" yaml:"total_vehicles"`
	TotalClients          int     `json:"total_clients" yaml:"total_clients"`
	VIPClients            int     `json:"vip_clients" yaml:"vip_clients"`
	TotalCapacity         float64 `json:"total_capacity" yaml:"total_capacity"`
	UsedCapacity          float64 `json:"used_capacity" yaml:"used_capacity"`
	AvailableCapacity     float64 `json:"available_capacity" yaml:"available_capacity"`
	UtilizationPercentage float64 `json:"utilization_percentage" yaml:"utilization_percentage"`
}

// Statistics computes the company summary. Utilization is 0 for an empty
// fleet.
func (r *Registry) Statistics() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return ComputeStats(r.name, r.vehicles, r.clients)
}

// ComputeStats summarises the given entities. Callers inside Exclusive use
// it to get statistics consistent with the entities they were handed.
func ComputeStats(company string, vehicles []*model.Vehicle, clients []*model.Client) Stats {
	caps := make([]float64, len(vehicles))
	loads := make([]float64, len(vehicles))
	for i, v := range vehicles {
		caps[i] = v.Capacity()
		loads[i] = v.Load()
	}
	st := Stats{
		CompanyName:   company,
		TotalVehicles: len(vehicles),
		TotalClients:  len(clients),
		TotalCapacity: floats.Sum(caps),
		UsedCapacity:  floats.Sum(loads),
	}
	for _, c := range clients {
		if c.VIP() {
			st.VIPClients++
		}
	}
	st.AvailableCapacity = st.TotalCapacity - st.UsedCapacity
	if st.TotalCapacity > 0 {
		st.UtilizationPercentage = st.UsedCapacity / st.TotalCapacity * 100
	}
	return st
}
