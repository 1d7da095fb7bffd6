package providers

import (
	"encoding/json"
	"fmt"
	"io"
)

const (
	decodeRepositoriesErrorTemplateConstant = "failed to decode %s repositories: %w"
)

// RemoteRepository is the provider-independent view of a hosted repository.
type RemoteRepository struct {
	SSHURL   string `json:"ssh_url"`
	HTTPURL  string `json:"http_url"`
	FullPath string `json:"full_path"`
}

type gitHubRepositoryPayload struct {
	SSHURL   string `json:"ssh_url"`
	CloneURL string `json:"clone_url"`
	FullName string `json:"full_name"`
}

type gitLabProjectPayload struct {
	SSHURLToRepository  string `json:"ssh_url_to_repo"`
	HTTPURLToRepository string `json:"http_url_to_repo"`
	PathWithNamespace   string `json:"path_with_namespace"`
}

// DecodeRepositories decodes one page of a provider listing response.
func DecodeRepositories(kind ProviderKind, reader io.Reader) ([]RemoteRepository, error) {
	if err := kind.validate(); err != nil {
		return nil, err
	}
	decoder := json.NewDecoder(reader)

	if kind == ProviderKindGitHub {
		var payloads []gitHubRepositoryPayload
		if decodeError := decoder.Decode(&payloads); decodeError != nil {
			return nil, fmt.Errorf(decodeRepositoriesErrorTemplateConstant, kind, decodeError)
		}
		repositories := make([]RemoteRepository, 0, len(payloads))
		for _, payload := range payloads {
			repositories = append(repositories, RemoteRepository{SSHURL: payload.SSHURL, HTTPURL: payload.CloneURL, FullPath: payload.FullName})
		}
		return repositories, nil
	}

	var payloads []gitLabProjectPayload
	if decodeError := decoder.Decode(&payloads); decodeError != nil {
		return nil, fmt.Errorf(decodeRepositoriesErrorTemplateConstant, kind, decodeError)
	}
	repositories := make([]RemoteRepository, 0, len(payloads))
	for _, payload := range payloads {
		repositories = append(repositories, RemoteRepository{SSHURL: payload.SSHURLToRepository, HTTPURL: payload.HTTPURLToRepository, FullPath: payload.PathWithNamespace})
	}
	return repositories, nil
}
