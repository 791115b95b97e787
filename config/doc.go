// Package config loads harness configuration files.
//
// A suite file is YAML with one entry per endpoint profile. Profiles map
// directly onto httpclient.Config:
//
//	suite: orders
//	logging:
//	  level: debug
//	endpoints:
//	  orders:
//	    base_url: https://api.example.com
//	    timeout: 10s
//	    headers:
//	      Accept: application/json
//	    auth:
//	      type: api_key
//	      key: ${ORDERS_API_KEY}
//	    retry:
//	      max_retries: 2
//	      delay: 500ms
//	      exponential: true
//	      statuses: [429, 503]
//
// A sibling .env file is loaded first when present, and ${VAR} references
// in credential fields are expanded from the environment.
package config
