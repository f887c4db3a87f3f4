// Package influxdb records device poses in InfluxDB.
//
// It wraps the official influxdb-client-go v2 library. Every tracked device
// in a published snapshot becomes one point:
//
//	device_pose,class=HMD,device_id=0 qw=1,qx=0,qy=0,qz=0,x=0,y=1.7,z=0 1700000000000
//
// stamped with the snapshot time at millisecond precision. This gives a
// queryable history of sessions that multicast alone does not keep.
//
// # Usage
//
//	client, err := influxdb.Connect(ctx, cfg.InfluxDB)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	client.SetOnError(func(err error) { log.Warn("influx write", "error", err) })
//	client.WritePoses(poses)
//
// # Thread Safety
//
// All methods are safe for concurrent use from multiple goroutines.
// The underlying write API uses non-blocking batched writes.
package influxdb
