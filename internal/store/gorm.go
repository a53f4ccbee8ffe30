package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Gorm is the SQLite-backed Store used by the CLI.
type Gorm struct {
	db *gorm.DB
}

var _ Store = (*Gorm)(nil)

// OpenSQLite opens (and migrates) the inventory database at path.
func OpenSQLite(path string) (*Gorm, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open inventory database: %w", err)
	}
	if err := db.AutoMigrate(
		&Cluster{}, &Host{}, &Instance{}, &Volume{},
		&ClusterService{}, &Flavor{}, &Alert{}, &AuditEntry{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate inventory schema: %w", err)
	}
	return &Gorm{db: db}, nil
}

func (g *Gorm) ListClusters(ctx context.Context) ([]Cluster, error) {
	var out []Cluster
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (g *Gorm) GetCluster(ctx context.Context, id uint) (*Cluster, error) {
	var c Cluster
	err := g.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (g *Gorm) SaveCluster(ctx context.Context, cluster *Cluster) error {
	return g.db.WithContext(ctx).Save(cluster).Error
}

func (g *Gorm) GetHost(ctx context.Context, clusterID uint, hostname string) (*Host, error) {
	var h Host
	err := g.db.WithContext(ctx).
		Where("cluster_id = ? AND hostname = ?", clusterID, hostname).
		First(&h).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func (g *Gorm) SaveHost(ctx context.Context, host *Host) error {
	return g.db.WithContext(ctx).Save(host).Error
}

func (g *Gorm) ListHostsByCluster(ctx context.Context, clusterID uint) ([]Host, error) {
	var out []Host
	err := g.db.WithContext(ctx).Where("cluster_id = ?", clusterID).Order("id").Find(&out).Error
	return out, err
}

func (g *Gorm) ListHosts(ctx context.Context) ([]Host, error) {
	var out []Host
	err := g.db.WithContext(ctx).Order("id").Find(&out).Error
	return out, err
}

func (g *Gorm) GetInstance(ctx context.Context, uuid string) (*Instance, error) {
	var inst Instance
	err := g.db.WithContext(ctx).Where("uuid = ?", uuid).First(&inst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inst, nil
}

func (g *Gorm) SaveInstance(ctx context.Context, instance *Instance) error {
	return g.db.WithContext(ctx).Save(instance).Error
}

func (g *Gorm) ListInstancesByHost(ctx context.Context, hostID uint) ([]Instance, error) {
	var out []Instance
	err := g.db.WithContext(ctx).Where("host_id = ?", hostID).Order("uuid").Find(&out).Error
	return out, err
}

func (g *Gorm) ListInstances(ctx context.Context) ([]Instance, error) {
	var out []Instance
	err := g.db.WithContext(ctx).Order("uuid").Find(&out).Error
	return out, err
}

func (g *Gorm) ReplaceInstanceVolumes(ctx context.Context, instanceUUID string, vols []Volume) error {
	return g.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("instance_uuid = ?", instanceUUID).Delete(&Volume{}).Error; err != nil {
			return err
		}
		for i := range vols {
			vols[i].InstanceUUID = instanceUUID
			if err := tx.Save(&vols[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (g *Gorm) ListVolumesByInstance(ctx context.Context, instanceUUID string) ([]Volume, error) {
	var out []Volume
	err := g.db.WithContext(ctx).Where("instance_uuid = ?", instanceUUID).Order("uuid").Find(&out).Error
	return out, err
}

func (g *Gorm) UpsertService(ctx context.Context, svc *ClusterService) error {
	var existing ClusterService
	err := g.db.WithContext(ctx).
		Where("cluster_id = ? AND binary = ? AND host = ?", svc.ClusterID, svc.Binary, svc.Host).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return g.db.WithContext(ctx).Create(svc).Error
	case err != nil:
		return err
	default:
		svc.ID = existing.ID
		return g.db.WithContext(ctx).Save(svc).Error
	}
}

func (g *Gorm) ListServicesByCluster(ctx context.Context, clusterID uint) ([]ClusterService, error) {
	var out []ClusterService
	err := g.db.WithContext(ctx).Where("cluster_id = ?", clusterID).Order("id").Find(&out).Error
	return out, err
}

func (g *Gorm) UpsertFlavor(ctx context.Context, flavor *Flavor) error {
	return g.db.WithContext(ctx).Save(flavor).Error
}

func (g *Gorm) GetFlavorByName(ctx context.Context, clusterID uint, name string) (*Flavor, error) {
	var f Flavor
	err := g.db.WithContext(ctx).
		Where("cluster_id = ? AND name = ?", clusterID, name).
		First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

func (g *Gorm) ListFlavorsByCluster(ctx context.Context, clusterID uint) ([]Flavor, error) {
	var out []Flavor
	err := g.db.WithContext(ctx).Where("cluster_id = ?", clusterID).Order("uuid").Find(&out).Error
	return out, err
}

func (g *Gorm) CreateAlertIfAbsent(ctx context.Context, alert *Alert) error {
	query := g.db.WithContext(ctx).Where("active = ? AND title = ?", true, alert.Title)
	if alert.HostID != nil {
		query = query.Where("host_id = ?", *alert.HostID)
	} else {
		query = query.Where("host_id IS NULL")
	}
	var existing Alert
	err := query.First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return g.db.WithContext(ctx).Create(alert).Error
	case err != nil:
		return err
	default:
		return nil
	}
}

func (g *Gorm) ListActiveAlerts(ctx context.Context) ([]Alert, error) {
	var out []Alert
	err := g.db.WithContext(ctx).Where("active = ?", true).Order("id").Find(&out).Error
	return out, err
}

func (g *Gorm) AppendAudit(ctx context.Context, entry *AuditEntry) error {
	return g.db.WithContext(ctx).Create(entry).Error
}
