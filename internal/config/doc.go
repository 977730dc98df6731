// Package config provides configuration parsing for routetable servers.
//
// The configuration is stored in routetable.json next to the route manifest.
// Every field can be overridden from the environment with a ROUTETABLE_
// prefixed variable, which is how container deployments usually set it.
//
// # Configuration File Structure
//
//	{
//	  "server": {
//	    "host": "0.0.0.0",
//	    "port": 8080
//	  },
//	  "routes": {
//	    "manifest": "routes.yaml"
//	  },
//	  "chunks": {
//	    "dir": "chunks",
//	    "cache": true,
//	    "s3": {
//	      "bucket": "my-views",
//	      "prefix": "chunks/",
//	      "region": "eu-west-1"
//	    }
//	  },
//	  "metrics": { "enabled": true, "path": "/metrics" },
//	  "tracing": { "enabled": true, "endpoint": "http://localhost:4318" },
//	  "log": { "level": "info" }
//	}
//
// # Environment
//
//	ROUTETABLE_SERVER_PORT=9090
//	ROUTETABLE_CHUNKS_S3_BUCKET=my-views
//	ROUTETABLE_LOG_LEVEL=debug
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Println("Listening on", cfg.Address())
package config
