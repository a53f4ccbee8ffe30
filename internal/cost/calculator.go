// Package cost derives monthly cost views from the reconciled inventory.
//
// The model is amortization plus power draw: a host's monthly cost is its
// hardware amortization plus watts drawn over a 30-day month priced at the
// configured electricity rate and datacenter PUE. Instance costs are the
// host cost split per vCPU and multiplied by the instance's flavor vCPUs.
package cost

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/openfleet/openfleet/internal/store"
)

// HardwareProfile describes one server model for the power model.
type HardwareProfile struct {
	// AverageWatts is the measured average power draw of the model.
	AverageWatts float64 `yaml:"average_watts" mapstructure:"average_watts"`
	// MonthlyAmortization is the hardware purchase cost spread per month.
	MonthlyAmortization float64 `yaml:"monthly_amortization" mapstructure:"monthly_amortization"`
}

// Settings holds the cost model parameters.
type Settings struct {
	// ElectricityCost is the price per kWh.
	ElectricityCost float64 `yaml:"electricity_cost" mapstructure:"electricity_cost"`
	// PUE is the datacenter power usage effectiveness factor.
	PUE float64 `yaml:"pue" mapstructure:"pue"`
	// Currency is a display label only, e.g. "EUR".
	Currency string `yaml:"currency" mapstructure:"currency"`

	// Profiles maps server model names to hardware profiles. DefaultProfile
	// names the profile used for hosts without a model assignment; when
	// empty, such hosts carry no cost.
	Profiles       map[string]HardwareProfile `yaml:"profiles" mapstructure:"profiles"`
	DefaultProfile string                     `yaml:"default_profile" mapstructure:"default_profile"`
}

// DefaultSettings returns the cost parameters used when the config omits
// them: 0.30/kWh at PUE 1.4, no hardware profiles.
func DefaultSettings() Settings {
	return Settings{
		ElectricityCost: 0.30,
		PUE:             1.4,
		Currency:        "EUR",
	}
}

// HostCost is the monthly cost breakdown of one host.
type HostCost struct {
	Hostname     string  `json:"hostname"`
	PowerCost    float64 `json:"power_cost"`
	Amortization float64 `json:"amortization"`
	Total        float64 `json:"total"`
}

// ProjectCost aggregates instance costs for one project.
type ProjectCost struct {
	ProjectID     string  `json:"project_id"`
	InstanceCount int     `json:"instance_count"`
	VCPUs         int     `json:"vcpus"`
	TotalMonthly  float64 `json:"total_monthly"`
}

// ProjectReport is the fleet-wide cost rollup grouped by project, most
// expensive first.
type ProjectReport struct {
	Currency        string        `json:"currency"`
	Projects        []ProjectCost `json:"projects"`
	TotalMonthly    float64       `json:"total_monthly"`
	ProjectedYearly float64       `json:"projected_yearly"`
}

// ClusterReport is the cost rollup of one cluster.
type ClusterReport struct {
	ClusterName    string  `json:"cluster_name"`
	Currency       string  `json:"currency"`
	TotalMonthly   float64 `json:"total_monthly"`
	HostCount      int     `json:"host_count"`
	InstanceCount  int     `json:"instance_count"`
	AvgPerInstance float64 `json:"avg_per_instance"`
}

// Calculator computes cost views. It only reads from the store.
type Calculator struct {
	store    store.Store
	settings Settings
}

// NewCalculator creates a calculator with the given parameters.
func NewCalculator(st store.Store, settings Settings) *Calculator {
	return &Calculator{store: st, settings: settings}
}

// profileFor resolves a host's hardware profile, falling back to the
// default profile. The second return is false when neither resolves.
func (c *Calculator) profileFor(host store.Host) (HardwareProfile, bool) {
	if p, ok := c.settings.Profiles[host.ServerModel]; ok && host.ServerModel != "" {
		return p, true
	}
	if p, ok := c.settings.Profiles[c.settings.DefaultProfile]; ok && c.settings.DefaultProfile != "" {
		return p, true
	}
	return HardwareProfile{}, false
}

// HostCost computes the monthly cost of one host. Hosts without a
// resolvable hardware profile carry no cost and return false.
func (c *Calculator) HostCost(host store.Host) (HostCost, bool) {
	profile, ok := c.profileFor(host)
	if !ok {
		return HostCost{}, false
	}

	power := (profile.AverageWatts / 1000) * 24 * 30 * c.settings.ElectricityCost * c.settings.PUE
	return HostCost{
		Hostname:     host.Hostname,
		PowerCost:    round2(power),
		Amortization: round2(profile.MonthlyAmortization),
		Total:        round2(profile.MonthlyAmortization + power),
	}, true
}

// InstanceCost computes the monthly cost of one instance on its host: the
// host total split per physical CPU, times the instance's flavor vCPUs.
// Instances whose flavor is unknown are billed for one vCPU.
func (c *Calculator) InstanceCost(ctx context.Context, inst store.Instance, host store.Host) (float64, bool) {
	hc, ok := c.HostCost(host)
	if !ok {
		return 0, false
	}
	if host.CPUCount == 0 {
		return 0, true
	}

	vcpus := c.instanceVCPUs(ctx, inst, host.ClusterID)
	return round2(hc.Total / float64(host.CPUCount) * float64(vcpus)), true
}

func (c *Calculator) instanceVCPUs(ctx context.Context, inst store.Instance, clusterID uint) int {
	flavor, err := c.store.GetFlavorByName(ctx, clusterID, inst.FlavorName)
	if err != nil || flavor.VCPUs <= 0 {
		return 1
	}
	return flavor.VCPUs
}

// ProjectCosts rolls up all instance costs in the fleet by owning project.
func (c *Calculator) ProjectCosts(ctx context.Context) (*ProjectReport, error) {
	hosts, err := c.store.ListHosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts: %w", err)
	}
	hostsByID := make(map[uint]store.Host, len(hosts))
	for _, h := range hosts {
		hostsByID[h.ID] = h
	}

	instances, err := c.store.ListInstances(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}

	byProject := map[string]*ProjectCost{}
	total := 0.0
	for _, inst := range instances {
		host, ok := hostsByID[inst.HostID]
		if !ok {
			continue
		}
		amount, _ := c.InstanceCost(ctx, inst, host)

		pc, ok := byProject[inst.ProjectID]
		if !ok {
			pc = &ProjectCost{ProjectID: inst.ProjectID}
			byProject[inst.ProjectID] = pc
		}
		pc.InstanceCount++
		pc.VCPUs += c.instanceVCPUs(ctx, inst, host.ClusterID)
		pc.TotalMonthly = round2(pc.TotalMonthly + amount)
		total += amount
	}

	report := &ProjectReport{
		Currency:        c.settings.Currency,
		Projects:        make([]ProjectCost, 0, len(byProject)),
		TotalMonthly:    round2(total),
		ProjectedYearly: round2(total * 12),
	}
	for _, pc := range byProject {
		report.Projects = append(report.Projects, *pc)
	}
	sort.Slice(report.Projects, func(i, j int) bool {
		if report.Projects[i].TotalMonthly != report.Projects[j].TotalMonthly {
			return report.Projects[i].TotalMonthly > report.Projects[j].TotalMonthly
		}
		return report.Projects[i].ProjectID < report.Projects[j].ProjectID
	})
	return report, nil
}

// ClusterCost rolls up the instance costs of one cluster.
func (c *Calculator) ClusterCost(ctx context.Context, cluster store.Cluster) (*ClusterReport, error) {
	hosts, err := c.store.ListHostsByCluster(ctx, cluster.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hosts for %s: %w", cluster.Name, err)
	}

	total := 0.0
	instanceCount := 0
	for _, host := range hosts {
		instances, err := c.store.ListInstancesByHost(ctx, host.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list instances for %s: %w", host.Hostname, err)
		}
		for _, inst := range instances {
			amount, _ := c.InstanceCost(ctx, inst, host)
			total += amount
			instanceCount++
		}
	}

	report := &ClusterReport{
		ClusterName:   cluster.Name,
		Currency:      c.settings.Currency,
		TotalMonthly:  round2(total),
		HostCount:     len(hosts),
		InstanceCount: instanceCount,
	}
	if instanceCount > 0 {
		report.AvgPerInstance = round2(total / float64(instanceCount))
	}
	return report, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
