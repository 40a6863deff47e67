package router

import (
	"fmt"
	"net/http"
)

func registerSwaggerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/swagger", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
	})

	mux.HandleFunc("/swagger/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, swaggerHTML, "/swagger/openapi.json")
	})

	mux.HandleFunc("/swagger/openapi.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(openAPI))
	})
}

const swaggerHTML = `<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Timelock Savings Ledger API Docs</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.onload = function() {
      window.ui = SwaggerUIBundle({
        url: "%s",
        dom_id: "#swagger-ui"
      });
    };
  </script>
</body>
</html>`

const openAPI = `{
  "openapi": "3.0.3",
  "info": {"title": "Timelock Savings Ledger API", "version": "1.0.0"},
  "paths": {
    "/deposits": {
      "post": {
        "summary": "Create a time-locked deposit",
        "tags": ["deposits"],
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CreateDepositRequest"}}}
        },
        "responses": {
          "201": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      },
      "get": {
        "summary": "List an owner's deposits",
        "tags": ["deposits"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "owner",
            "in": "query",
            "required": true,
            "description": "Owner account",
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/deposits/summary": {
      "get": {
        "summary": "Summarise an owner's deposits",
        "tags": ["deposits"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "owner",
            "in": "query",
            "required": true,
            "description": "Owner account",
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/deposits/{id}": {
      "get": {
        "summary": "Get one deposit",
        "tags": ["deposits"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          },
          {
            "name": "owner",
            "in": "query",
            "required": true,
            "description": "Owner account",
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/deposits/{id}/withdraw": {
      "post": {
        "summary": "Withdraw from an unlocked deposit",
        "tags": ["deposits"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/WithdrawDepositRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/legacy/deposit": {
      "post": {
        "summary": "Place the single legacy deposit",
        "tags": ["legacy"],
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LegacyDepositRequest"}}}
        },
        "responses": {
          "201": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/legacy/withdraw": {
      "post": {
        "summary": "Withdraw from the legacy deposit",
        "tags": ["legacy"],
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/LegacyWithdrawRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/legacy": {
      "get": {
        "summary": "Get the legacy deposit",
        "tags": ["legacy"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "owner",
            "in": "query",
            "required": true,
            "description": "Owner account",
            "schema": {"type": "string"}
          }
        ],
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/groups": {
      "post": {
        "summary": "Create a savings group",
        "tags": ["groups"],
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/CreateGroupRequest"}}}
        },
        "responses": {
          "201": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/groups/{id}": {
      "get": {
        "summary": "Get a savings group",
        "tags": ["groups"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          }
        ],
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/groups/{id}/members": {
      "get": {
        "summary": "List group members in join order",
        "tags": ["groups"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          }
        ],
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/groups/{id}/join": {
      "post": {
        "summary": "Join a group with an initial deposit",
        "tags": ["groups"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/GroupAmountRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/groups/{id}/close": {
      "post": {
        "summary": "Close enrollment",
        "tags": ["groups"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/GroupCallerRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/groups/{id}/start": {
      "post": {
        "summary": "Start the group lock",
        "tags": ["groups"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/GroupCallerRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/groups/{id}/deposit": {
      "post": {
        "summary": "Add to a member balance",
        "tags": ["groups"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/GroupAmountRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/groups/{id}/withdraw": {
      "post": {
        "summary": "Withdraw a member balance after expiry",
        "tags": ["groups"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "description": "Numeric id",
            "schema": {"type": "integer"}
          }
        ],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/GroupAmountRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/price": {
      "get": {
        "summary": "Get the current unit price",
        "tags": ["price"],
        "security": [{"BasicAuth": []}],
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      },
      "post": {
        "summary": "Update the unit price",
        "tags": ["price"],
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/UpdatePriceRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/price/authority": {
      "post": {
        "summary": "Transfer the price authority",
        "tags": ["price"],
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {"schema": {"$ref": "#/components/schemas/TransferAuthorityRequest"}}
          }
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/wallets/fund": {
      "post": {
        "summary": "Fund a wallet",
        "tags": ["wallets"],
        "security": [{"BasicAuth": []}],
        "requestBody": {
          "required": true,
          "content": {"application/json": {"schema": {"$ref": "#/components/schemas/FundWalletRequest"}}}
        },
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/wallets/{account}": {
      "get": {
        "summary": "Get a wallet",
        "tags": ["wallets"],
        "security": [{"BasicAuth": []}],
        "parameters": [
          {
            "name": "account",
            "in": "path",
            "required": true,
            "description": "Account",
            "schema": {"type": "string"}
          },
          {"name": "entries", "in": "query", "required": false, "schema": {"type": "boolean"}}
        ],
        "responses": {
          "200": {"$ref": "#/components/responses/Success"},
          "400": {"$ref": "#/components/responses/BadRequest"},
          "401": {"$ref": "#/components/responses/Unauthorized"},
          "404": {"$ref": "#/components/responses/NotFound"},
          "409": {"$ref": "#/components/responses/Conflict"}
        }
      }
    },
    "/lock-options": {
      "get": {
        "summary": "List lock options",
        "tags": ["system"],
        "responses": {"200": {"description": "Success"}}
      }
    },
    "/clock": {
      "get": {
        "summary": "Current block height",
        "tags": ["system"],
        "responses": {"200": {"description": "Success"}}
      }
    },
    "/healthz": {
      "get": {"summary": "Liveness", "tags": ["system"], "responses": {"200": {"description": "Success"}}}
    }
  },
  "components": {
    "securitySchemes": {"BasicAuth": {"type": "http", "scheme": "basic"}},
    "schemas": {
      "Envelope": {
        "type": "object",
        "properties": {
          "success": {"type": "boolean"},
          "message": {"type": "string"},
          "code": {"type": "string"},
          "data": {},
          "errors": {"type": "array", "items": {"type": "string"}}
        }
      },
      "CreateDepositRequest": {
        "type": "object",
        "required": ["owner", "amount", "lockOption"],
        "properties": {
          "owner": {"type": "string"},
          "amount": {"type": "integer", "format": "int64"},
          "lockOption": {"type": "integer", "minimum": 1, "maximum": 13},
          "name": {"type": "string", "maxLength": 50}
        }
      },
      "WithdrawDepositRequest": {
        "type": "object",
        "required": ["owner", "amount"],
        "properties": {"owner": {"type": "string"}, "amount": {"type": "integer", "format": "int64"}}
      },
      "LegacyDepositRequest": {
        "type": "object",
        "required": ["owner", "amount", "lockOption"],
        "properties": {
          "owner": {"type": "string"},
          "amount": {"type": "integer", "format": "int64"},
          "lockOption": {"type": "integer", "minimum": 1, "maximum": 13}
        }
      },
      "LegacyWithdrawRequest": {
        "type": "object",
        "required": ["owner", "amount"],
        "properties": {"owner": {"type": "string"}, "amount": {"type": "integer", "format": "int64"}}
      },
      "CreateGroupRequest": {
        "type": "object",
        "required": ["creator", "name", "lockOption"],
        "properties": {
          "creator": {"type": "string"},
          "name": {"type": "string", "maxLength": 50},
          "lockOption": {"type": "integer", "minimum": 1, "maximum": 13},
          "threshold": {"type": "integer", "minimum": 1, "maximum": 100}
        }
      },
      "GroupAmountRequest": {
        "type": "object",
        "required": ["account", "amount"],
        "properties": {"account": {"type": "string"}, "amount": {"type": "integer", "format": "int64"}}
      },
      "GroupCallerRequest": {"type": "object", "required": ["caller"], "properties": {"caller": {"type": "string"}}},
      "UpdatePriceRequest": {
        "type": "object",
        "required": ["caller"],
        "properties": {
          "caller": {"type": "string"},
          "price": {"type": "string", "example": "0.50"},
          "unitPrice": {"type": "integer", "format": "int64"}
        }
      },
      "TransferAuthorityRequest": {
        "type": "object",
        "required": ["caller", "newAuthority"],
        "properties": {"caller": {"type": "string"}, "newAuthority": {"type": "string"}}
      },
      "FundWalletRequest": {
        "type": "object",
        "required": ["account", "amount"],
        "properties": {"account": {"type": "string"}, "amount": {"type": "integer", "format": "int64"}}
      }
    },
    "responses": {
      "Success": {
        "description": "Success",
        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}
      },
      "BadRequest": {
        "description": "Validation failed",
        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}
      },
      "Unauthorized": {"description": "Unauthorized"},
      "NotFound": {
        "description": "Not found",
        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}
      },
      "Conflict": {
        "description": "Rejected by ledger state",
        "content": {"application/json": {"schema": {"$ref": "#/components/schemas/Envelope"}}}
      }
    }
  }
}`
